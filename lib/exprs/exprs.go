// Package exprs compiles expression source strings into scope-evaluated
// functions.
//
// The hydration engine itself consumes opaque compiled expression functions;
// this package is the convenience path for hosts (and tests) that have
// expression source instead of precompiled closures:
//
//	fn, _ := exprs.Compile("count > 3")
//	v, _ := fn(map[string]any{"count": 5}) // true
//
// Scope values implementing Get() any (reactive signals) are unwrapped at
// evaluation time, so reads performed inside a binder effect are tracked by
// the effect. Only identifiers actually referenced by the expression are
// unwrapped; untouched signals in the scope are never subscribed.
package exprs

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Func evaluates a compiled expression against a scope.
type Func func(scope map[string]any) (any, error)

// getter is satisfied by reactive signals and memos holding any-typed values.
type getter interface {
	Get() any
}

// Compile parses and compiles an expression source string.
//
// Unknown identifiers evaluate to nil rather than failing, matching the
// engine's tolerance for registry/markup skew.
func Compile(src string) (Func, error) {
	idents, err := referencedIdentifiers(src)
	if err != nil {
		return nil, err
	}
	program, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return func(scope map[string]any) (any, error) {
		env := make(map[string]any, len(idents))
		for _, name := range idents {
			v, ok := scope[name]
			if !ok {
				continue
			}
			if g, ok := v.(getter); ok {
				v = g.Get()
			}
			env[name] = v
		}
		return vm.Run(program, env)
	}, nil
}

// MustCompile is Compile but panics on a compile error. For fixed
// expressions in bootstrap code and tests.
func MustCompile(src string) Func {
	fn, err := Compile(src)
	if err != nil {
		panic("exprs: " + err.Error())
	}
	return fn
}

// identCollector gathers identifier names from an expression AST.
type identCollector struct {
	names []string
	seen  map[string]struct{}
}

func (c *identCollector) Visit(node *ast.Node) {
	ident, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}
	if _, dup := c.seen[ident.Value]; dup {
		return
	}
	c.seen[ident.Value] = struct{}{}
	c.names = append(c.names, ident.Value)
}

func referencedIdentifiers(src string) ([]string, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	c := &identCollector{seen: make(map[string]struct{})}
	ast.Walk(&tree.Node, c)
	return c.names, nil
}

package zenith

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

// booleanAttributes are set to the empty string when truthy and removed
// when falsy, regardless of the value's string form.
var booleanAttributes = map[string]struct{}{
	"disabled": {},
	"checked":  {},
	"readonly": {},
	"required": {},
	"selected": {},
	"open":     {},
	"hidden":   {},
}

// bindValue wires a comment placeholder to its expression. The returned
// disposer stops the effect; ok is false when the binding was skipped
// (registry miss).
//
// On every run the previous rendering is removed before the new one is
// inserted, so no node is ever orphaned or duplicated across re-runs. DOM
// identity is not preserved across updates; a value binding has no keyed
// reconciliation.
func (s *Session) bindValue(b Binding, scope Scope) (func(), bool) {
	fn, ok := s.rt.expression(b.ExprID)
	if !ok {
		// Id/marker skew is a build-contract violation, tolerated as a no-op.
		return nil, false
	}
	parent := b.Placeholder.Parent
	if parent == nil {
		return nil, false
	}
	dom.MarkComment(b.Placeholder, commentHydratedKey)

	var rendered []*html.Node
	stop := s.scheduler.Effect(func() {
		defer s.recoverPanic(ErrorContext{Activity: "evaluate", ExprID: b.ExprID})

		v, err := fn(scope)
		if err != nil {
			s.contain(ErrorContext{Activity: "evaluate", ExprID: b.ExprID}, err)
			return
		}

		for _, n := range rendered {
			s.listeners.RemoveSubtree(n)
			dom.Detach(n)
		}
		rendered = rendered[:0]

		for _, n := range renderValue(v) {
			dom.InsertBefore(parent, n, b.Placeholder)
			rendered = append(rendered, n)
		}
	})
	return stop, true
}

// bindAttribute wires one named attribute on one element. A binding never
// touches any attribute other than the one its marker names.
func (s *Session) bindAttribute(b Binding, scope Scope) (func(), bool) {
	fn, ok := s.rt.expression(b.ExprID)
	if !ok {
		return nil, false
	}
	dom.SetAttr(b.Element, attrHydrated, "")

	stop := s.scheduler.Effect(func() {
		defer s.recoverPanic(ErrorContext{Activity: "apply", ExprID: b.ExprID})

		v, err := fn(scope)
		if err != nil {
			s.contain(ErrorContext{Activity: "evaluate", ExprID: b.ExprID}, err)
			return
		}
		applyAttribute(b.Element, b.Attr, v)
	})
	return stop, true
}

// renderValue classifies an evaluated value into the nodes it renders as:
// nil and false render nothing, nodes insert as-is, slices flatten to any
// depth (nodes kept, primitives stringified), everything else becomes one
// text node.
func renderValue(v any) []*html.Node {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		if !val {
			return nil
		}
		return []*html.Node{dom.Text("true")}
	case *html.Node:
		return []*html.Node{val}
	case string:
		return []*html.Node{dom.Text(val)}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		var out []*html.Node
		for i := 0; i < rv.Len(); i++ {
			out = append(out, renderValue(rv.Index(i).Interface())...)
		}
		return out
	}

	return []*html.Node{dom.Text(fmt.Sprint(v))}
}

// applyAttribute applies an evaluated value to one attribute, with the
// value-dependent removal rules: class and style have dedicated handling,
// boolean attributes follow truthiness, and any other attribute is removed
// on nil/false and stringified otherwise.
func applyAttribute(n *html.Node, name string, v any) {
	switch name {
	case "class", "className":
		if !truthy(v) {
			dom.SetAttr(n, "class", "")
			return
		}
		dom.SetAttr(n, "class", fmt.Sprint(v))
		return

	case "style":
		applyStyle(n, v)
		return
	}

	if _, isBool := booleanAttributes[name]; isBool {
		if truthy(v) {
			dom.SetAttr(n, name, "")
		} else {
			dom.RemoveAttr(n, name)
		}
		return
	}

	if v == nil || v == false {
		dom.RemoveAttr(n, name)
		return
	}
	dom.SetAttr(n, name, fmt.Sprint(v))
}

// applyStyle accepts a raw style string or a property map rendered as
// "key: value;" pairs (sorted for stable output).
func applyStyle(n *html.Node, v any) {
	switch val := v.(type) {
	case nil:
		dom.RemoveAttr(n, "style")
	case bool:
		if !val {
			dom.RemoveAttr(n, "style")
		} else {
			dom.SetAttr(n, "style", fmt.Sprint(val))
		}
	case string:
		dom.SetAttr(n, "style", val)
	case map[string]string:
		props := make(map[string]any, len(val))
		for k, s := range val {
			props[k] = s
		}
		dom.SetAttr(n, "style", styleText(props))
	case map[string]any:
		dom.SetAttr(n, "style", styleText(val))
	default:
		dom.SetAttr(n, "style", fmt.Sprint(v))
	}
}

func styleText(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(fmt.Sprint(props[k]))
		sb.WriteString(";")
	}
	return sb.String()
}

// truthy follows the host-language rules the markup was authored against:
// nil, false, numeric zero, and the empty string are falsy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int8:
		return val != 0
	case int16:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case uint:
		return val != 0
	case uint8:
		return val != 0
	case uint16:
		return val != 0
	case uint32:
		return val != 0
	case uint64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

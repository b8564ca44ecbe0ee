package zenith

import (
	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
	"github.com/zenithbuild/zenith-runtime/lib/exprs"
	"github.com/zenithbuild/zenith-runtime/lib/reactive"
)

// ExprFunc is a compiled expression: it computes a value from the current
// scope. Reads of reactive values inside the function are tracked by the
// surrounding binding effect. A returned error is contained at the binding
// that evaluated it.
type ExprFunc func(Scope) (any, error)

// Expr adapts a compiled exprs.Func into an ExprFunc.
func Expr(fn exprs.Func) ExprFunc {
	return func(s Scope) (any, error) {
		return fn(s)
	}
}

// Value wraps a fixed value as an ExprFunc, for bootstrap tables that mix
// literals with computed expressions.
func Value(v any) ExprFunc {
	return func(Scope) (any, error) {
		return v, nil
	}
}

// Factory builds a component onto its host element. The instance is created
// by the engine before the factory runs, so lifecycle registration
// (OnMount, OnUnmount, Effect) works during construction. A returned error
// is contained: that subtree degrades, the page survives.
type Factory func(in *Instance, props map[string]any, element *html.Node) error

// HandlerFunc handles a dispatched event. The scope is the one active where
// the event marker was wired (a loop iteration's fork inside loops).
type HandlerFunc func(e *dom.Event, scope Scope)

// Scheduler is the reactive contract the binders consume: Effect runs fn
// immediately and re-runs it whenever a tracked dependency changes, and
// returns an idempotent disposer. The engine assumes nothing else about the
// implementation; re-runs may be batched or deferred, but runs of one
// binding are never concurrent.
type Scheduler interface {
	Effect(fn func()) (stop func())
}

// reactiveScheduler is the default Scheduler, backed by lib/reactive.
type reactiveScheduler struct{}

func (reactiveScheduler) Effect(fn func()) func() {
	return reactive.NewEffect(fn).Disposer()
}

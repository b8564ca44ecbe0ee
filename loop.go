package zenith

import (
	"reflect"

	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

// bindLoop wires a template fragment to its list expression.
//
// The reconciliation strategy is full clear-and-redraw: each reactive run
// disposes the previous pass (nested effects, listeners, component
// instances), clears the stable container, and re-renders every item in
// source order with a forked child scope. Item-level DOM identity is not
// preserved across re-renders; that is the documented behavior, not an
// optimization target.
func (s *Session) bindLoop(b Binding, scope Scope) (func(), bool) {
	fn, ok := s.rt.expression(b.ExprID)
	if !ok {
		return nil, false
	}
	dom.SetAttr(b.Template, attrHydrated, "")

	container := ensureLoopContainer(b.Template)
	if container == nil {
		return nil, false
	}

	var pass *hydratedPass
	stop := s.scheduler.Effect(func() {
		defer s.recoverPanic(ErrorContext{Activity: "evaluate", ExprID: b.ExprID})

		v, err := fn(scope)
		if err != nil {
			s.contain(ErrorContext{Activity: "evaluate", ExprID: b.ExprID}, err)
			return
		}
		items, ok := listItems(v)
		if !ok {
			// Not a list: defensive no-op, the previous rendering stands.
			return
		}

		if pass != nil {
			pass.dispose()
			pass = nil
		}
		s.listeners.RemoveSubtree(container)
		dom.ClearChildren(container)

		next := &hydratedPass{}
		for i, item := range items {
			child := scope.Fork()
			child[b.ItemVar] = item
			if b.IndexVar != "" {
				child[b.IndexVar] = i
			}

			// Clone the template content, attach it, then run the full
			// hydration pass over the attached fragment with the fork.
			clones := make([]*html.Node, 0, 4)
			for tc := b.Template.FirstChild; tc != nil; tc = tc.NextSibling {
				clone := dom.Clone(tc)
				dom.Append(container, clone)
				clones = append(clones, clone)
			}
			for _, clone := range clones {
				next.merge(s.hydrateSubtree(clone, child))
			}
		}
		next.mountAll()
		pass = next
	})

	return func() {
		stop()
		if pass != nil {
			pass.dispose()
			pass = nil
		}
	}, true
}

// ensureLoopContainer finds or creates the stable rendered-items container
// immediately after the template. It is created exactly once per loop and
// reused (cleared, never replaced) across re-renders, so its position in
// the tree is stable.
func ensureLoopContainer(template *html.Node) *html.Node {
	if template.Parent == nil {
		return nil
	}
	if next := template.NextSibling; next != nil && dom.IsElement(next) && dom.HasAttr(next, attrItems) {
		return next
	}
	container := dom.Element("div")
	dom.SetAttr(container, attrItems, "")
	dom.SetAttr(container, attrHydrated, "")
	dom.InsertBefore(template.Parent, container, template.NextSibling)
	return container
}

// listItems normalizes an evaluated list expression into a slice. Non-list
// values report ok=false.
func listItems(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// Package zenith implements the client hydration and reactive-binding
// runtime: it takes server-emitted markup containing structural markers and
// a set of compiled expression functions, and turns that static markup into
// a live, reactively-updating tree. There is no virtual-DOM diff and no
// re-render from scratch; updates flow through per-binding effects.
//
// # Markers
//
// The build step emits five marker forms:
//
//   - Value bindings: comment placeholders, <!--zen:expr_0-->. The binding
//     owns the nodes it inserts immediately before the placeholder.
//   - Attribute bindings: data-zen-attr-<name>="<id>" on the target element.
//   - Event bindings: data-zen-on<type>="<handler>", e.g. data-zen-onclick.
//   - Loop templates: <template data-zen-each="<id>" data-zen-item="x">.
//   - Component hosts: data-zen-component="Name" with an optional
//     data-zen-props payload.
//
// # Hydration
//
// A Runtime holds the expression registry, the component registry, and the
// handler table - there is no package-level mutable state, so independent
// runtimes (and tests) never interfere:
//
//	rt := zenith.NewRuntime()
//	rt.DefineExpression(0, zenith.Expr(exprs.MustCompile("title")))
//
//	session, err := rt.Hydrate(zenith.Scope{"title": title}, root)
//
// Hydration walks the subtree exactly once, wires every discovered marker,
// runs the event wire-up pass, and mounts discovered component instances.
// After that, updates are driven purely by the reactive scheduler re-running
// the affected binding's effect. Store reactive signals in the scope so
// expression reads are tracked:
//
//	title := reactive.NewSignal[any]("Hi")
//	session, _ := rt.Hydrate(zenith.Scope{"title": title}, root)
//	title.Set("Bye") // the value binding re-renders, nothing else runs
//
// The returned Session owns every binding effect, listener, and component
// instance created during the pass; Session.Unmount releases all of them.
// Hydrating the same subtree twice discovers nothing the second time -
// processed markers are flagged in the tree.
//
// # Components
//
// Factories are registered by name and instantiated when the scanner finds
// their host markers:
//
//	rt.DefineComponent("Counter", func(in *zenith.Instance, props map[string]any, el *html.Node) error {
//	    in.OnMount(func() func() {
//	        // runs when the instance mounts; the returned cleanup runs on unmount
//	        return nil
//	    })
//	    in.Effect(func() { /* disposed automatically on unmount */ })
//	    return nil
//	})
//
// An instance's lifetime is bounded by its element: effects registered
// through the instance are guaranteed disposed on unmount, in registration
// order, before plain unmount callbacks run.
//
// # Errors
//
// A failing expression, mount callback, or malformed marker never tears
// down the page. Failures are contained at the binding or callback boundary
// and routed to the session's error view - a registered "zenith:error"
// component if present, otherwise a built-in diagnostic. Once a diagnostic
// is shown, further errors in the same session are suppressed.
package zenith

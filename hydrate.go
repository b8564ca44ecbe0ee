package zenith

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

// Session is one hydration of one container. It owns every binding effect,
// event listener, and component instance created during the pass, plus the
// error-containment state for the page - independent sessions never share
// suppression state.
type Session struct {
	rt        *Runtime
	root      *html.Node
	scope     Scope
	scheduler Scheduler
	listeners *dom.ListenerTable

	pass         *hydratedPass
	rootInstance *Instance

	errored   bool
	unmounted bool
}

// hydratedPass collects what one hydration pass over a subtree produced.
// The root pass belongs to the session; loop passes are owned by their
// reconciler and disposed wholesale before each redraw.
type hydratedPass struct {
	disposers []func()
	instances []*Instance
}

func (p *hydratedPass) merge(other *hydratedPass) {
	p.disposers = append(p.disposers, other.disposers...)
	p.instances = append(p.instances, other.instances...)
}

func (p *hydratedPass) mountAll() {
	for _, in := range p.instances {
		in.Mount()
	}
}

func (p *hydratedPass) dispose() {
	for _, d := range p.disposers {
		d()
	}
	p.disposers = nil
	for _, in := range p.instances {
		in.Unmount()
	}
	p.instances = nil
}

// Hydrate turns the already-rendered markup under container into a live
// subtree bound to scope. The subtree is walked exactly once; discovered
// bindings are wired in document order, event wire-up runs over the same
// instructions, component instances mount, and the root lifecycle mounts
// last. All subsequent updates run through per-binding effects.
//
// Hydrate is not designed to be re-run over an already-hydrated subtree:
// processed markers are flagged in the tree, so a second call discovers
// nothing (and is therefore harmless, just useless).
func (rt *Runtime) Hydrate(scope Scope, container *html.Node) (*Session, error) {
	if container == nil {
		return nil, ErrNoContainer
	}
	if scope == nil {
		scope = Scope{}
	}

	s := &Session{
		rt:        rt,
		root:      container,
		scope:     scope,
		scheduler: rt.scheduler,
		listeners: dom.NewListenerTable(),
	}

	s.pass = s.hydrateSubtree(container, scope)

	s.pass.mountAll()

	s.rootInstance = newInstance(rt, s, "zenith:page", container)
	s.rootInstance.Mount()

	return s, nil
}

// hydrateSubtree runs scan -> bind -> event wire-up over one subtree with
// one scope. It is the recursion point for loop bodies: the reconciler
// calls it per cloned fragment with the iteration's forked scope.
func (s *Session) hydrateSubtree(root *html.Node, scope Scope) *hydratedPass {
	pass := &hydratedPass{}
	bindings, issues := scan(root)

	for _, issue := range issues {
		// A malformed marker aborts only its own binding.
		s.contain(ErrorContext{Activity: "scan", ExprID: -1}, issue.err)
	}

	// Bind pass, document order. Event wire-up runs after the structural
	// binders, over the same instruction list.
	for _, b := range bindings {
		switch b.Kind {
		case KindValue:
			if stop, ok := s.bindValue(b, scope); ok {
				pass.disposers = append(pass.disposers, stop)
			}
		case KindAttribute:
			if stop, ok := s.bindAttribute(b, scope); ok {
				pass.disposers = append(pass.disposers, stop)
			}
		case KindLoop:
			if stop, ok := s.bindLoop(b, scope); ok {
				pass.disposers = append(pass.disposers, stop)
			}
		case KindComponent:
			if in, ok := s.bindComponent(b); ok {
				pass.instances = append(pass.instances, in)
			}
		}
	}
	for _, b := range bindings {
		if b.Kind == KindEvent {
			pass.disposers = append(pass.disposers, s.bindEvent(b, scope))
		}
	}

	return pass
}

// Root returns the container this session hydrated.
func (s *Session) Root() *html.Node {
	return s.root
}

// Scope returns the page scope the session was hydrated with.
func (s *Session) Scope() Scope {
	return s.scope
}

// Errored reports whether the session has rendered its diagnostic view.
func (s *Session) Errored() bool {
	return s.errored
}

// Unmount tears the session down: every binding effect is disposed, every
// component instance unmounts, listeners are dropped, and the root
// lifecycle unmounts last. This is the session's only cancellation
// primitive; it is synchronous, and a second call is a no-op.
func (s *Session) Unmount() {
	if s.unmounted {
		return
	}
	s.unmounted = true

	s.pass.dispose()
	s.rootInstance.Unmount()
	s.listeners.Clear()
}

// contain is the single containment point for runtime failures. The first
// error replaces the container's content with the error view; every
// subsequent error in the same session is swallowed (logged only) so error
// handling cannot itself start a render loop.
func (s *Session) contain(ctx ErrorContext, err error) {
	if err == nil {
		return
	}
	if s.errored {
		s.rt.logger.Debug("error suppressed, diagnostic already rendered",
			zap.String("activity", ctx.Activity),
			zap.Error(err),
		)
		return
	}
	s.errored = true

	s.rt.logger.Error("hydration error",
		zap.String("activity", ctx.Activity),
		zap.Int("expr", ctx.ExprID),
		zap.String("component", ctx.Component),
		zap.Error(err),
	)
	s.renderErrorView(ctx, err)
}

// recoverPanic converts a panic at a binding or callback boundary into a
// contained error, so one failing closure cannot tear down the scheduler
// or abort sibling bindings.
func (s *Session) recoverPanic(ctx ErrorContext) {
	r := recover()
	if r == nil {
		return
	}
	ctx.Stack = string(debug.Stack())
	s.contain(ctx, fmt.Errorf("zenith: panic: %v", r))
}

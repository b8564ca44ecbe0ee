package zenith

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

// Instance is a lifecycle-and-effect scope bound to one component
// definition and one host element. The element reference is borrowed - the
// tree owns its lifetime - but everything the instance registers (mount
// callbacks, unmount callbacks, effects) is owned by the instance and
// released exactly once on Unmount.
//
// The state machine is unmounted -> mounted -> unmounted, terminal: an
// instance is not reused after its final unmount; a fresh instantiation
// creates a new one.
type Instance struct {
	rt      *Runtime
	session *Session
	name    string
	element *html.Node

	mounted   bool
	unmounted bool

	mountQueue []func() func()
	cleanups   []func() // instance-scoped effect disposers
	unmounts   []func() // plain unmount callbacks + mount-returned cleanups
}

func newInstance(rt *Runtime, session *Session, name string, element *html.Node) *Instance {
	return &Instance{
		rt:      rt,
		session: session,
		name:    name,
		element: element,
	}
}

// Name returns the component name the instance was created under.
func (in *Instance) Name() string {
	return in.name
}

// Element returns the host element.
func (in *Instance) Element() *html.Node {
	return in.element
}

// Mounted reports whether the instance is currently mounted.
func (in *Instance) Mounted() bool {
	return in.mounted
}

// OnMount registers a callback for the mount transition. The returned
// cleanup (may be nil) joins the unmount list. If the instance is already
// mounted the callback runs immediately, synchronously.
func (in *Instance) OnMount(fn func() func()) {
	if fn == nil || in.unmounted {
		return
	}
	if in.mounted {
		in.runMountCallback(fn)
		return
	}
	in.mountQueue = append(in.mountQueue, fn)
}

// OnUnmount registers a cleanup that runs when the instance unmounts,
// after instance-scoped effects are disposed.
func (in *Instance) OnUnmount(fn func()) {
	if fn == nil || in.unmounted {
		return
	}
	in.unmounts = append(in.unmounts, fn)
}

// Effect creates an instance-scoped reactive effect. Its disposer is
// registered with the instance, so the effect is guaranteed disposed on
// Unmount: no instance may leak a live effect past its own unmount.
func (in *Instance) Effect(fn func()) {
	if in.unmounted {
		return
	}
	stop := in.scheduler().Effect(func() {
		defer in.recoverCallback("effect")
		fn()
	})
	in.cleanups = append(in.cleanups, stop)
}

// Mount transitions to mounted and drains the queued mount callbacks once,
// in registration order. A second Mount finds an empty queue and is a
// no-op. Each callback's failure is contained individually; one failing
// callback does not block the rest.
func (in *Instance) Mount() {
	if in.mounted || in.unmounted {
		return
	}
	in.mounted = true

	queue := in.mountQueue
	in.mountQueue = nil
	for _, fn := range queue {
		in.runMountCallback(fn)
	}
}

// Unmount runs every instance-scoped effect disposer first, then every
// unmount callback, each in registration order, each contained
// individually so all cleanups run even if one fails. Callbacks never run
// twice: a second Unmount is a no-op.
func (in *Instance) Unmount() {
	if in.unmounted {
		return
	}
	in.unmounted = true
	in.mounted = false

	cleanups := in.cleanups
	in.cleanups = nil
	for _, stop := range cleanups {
		in.runCleanup(stop)
	}

	unmounts := in.unmounts
	in.unmounts = nil
	for _, fn := range unmounts {
		in.runCleanup(fn)
	}
	in.mountQueue = nil
}

func (in *Instance) runMountCallback(fn func() func()) {
	defer in.recoverCallback("mount")
	if cleanup := fn(); cleanup != nil {
		in.unmounts = append(in.unmounts, cleanup)
	}
}

func (in *Instance) runCleanup(fn func()) {
	defer in.recoverCallback("unmount")
	fn()
}

func (in *Instance) recoverCallback(activity string) {
	r := recover()
	if r == nil {
		return
	}
	err := fmt.Errorf("zenith: component callback panicked: %v", r)
	if in.session != nil {
		in.session.contain(ErrorContext{Activity: activity, ExprID: -1, Component: in.name}, err)
		return
	}
	in.rt.logger.Warn("component callback failed",
		zap.String("component", in.name),
		zap.String("activity", activity),
		zap.Error(err),
	)
}

func (in *Instance) scheduler() Scheduler {
	if in.session != nil {
		return in.session.scheduler
	}
	return in.rt.scheduler
}

// bindComponent instantiates a registered component on its host element.
// A missing definition degrades that subtree with a warning - the static
// markup stays visible - except for the reserved fallback identifier,
// which invokes the built-in fallback view.
func (s *Session) bindComponent(b Binding) (*Instance, bool) {
	dom.SetAttr(b.Element, attrHydrated, "")

	props, err := s.decodeProps(b.PropsPayload)
	if err != nil {
		s.rt.logger.Warn("component props payload rejected",
			zap.String("component", b.Component),
			zap.Error(err),
		)
		return nil, false
	}

	factory, ok := s.rt.component(b.Component)
	if !ok {
		if b.Component == ErrorComponentName {
			renderBuiltinFallback(b.Element, props)
			return nil, false
		}
		s.rt.logger.Warn("component not registered, subtree left unhydrated",
			zap.String("component", b.Component),
		)
		return nil, false
	}

	in := newInstance(s.rt, s, b.Component, b.Element)
	failed := false
	func() {
		defer s.recoverPanic(ErrorContext{Activity: "instantiate", ExprID: -1, Component: b.Component})
		if ferr := factory(in, props, b.Element); ferr != nil {
			failed = true
			s.contain(ErrorContext{Activity: "instantiate", ExprID: -1, Component: b.Component}, ferr)
		}
	}()
	if failed {
		// Release anything the factory registered before failing.
		in.Unmount()
		return nil, false
	}
	return in, true
}

func (s *Session) decodeProps(payload string) (map[string]any, error) {
	if payload == "" {
		return map[string]any{}, nil
	}
	props, err := s.rt.encoder.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPropsDecode, err)
	}
	return props, nil
}

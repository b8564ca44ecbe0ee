package zenith

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/encoding"
)

// ErrorComponentName is the reserved fallback identifier. A component
// registered under this name replaces the built-in diagnostic view when a
// session renders an error.
const ErrorComponentName = "zenith:error"

// Runtime is the explicit context threaded through every scan/bind call:
// the component registry, the expression registry, and the handler table.
// Nothing in the engine reads ambient globals, so independent runtimes
// never share state.
//
// Registration is a setup step: populate the registries before calling
// Hydrate. Registries are read-only during hydration. Re-registering a name
// or id overwrites silently (last write wins) - compiled output registers
// each entry exactly once, so a collision is a build problem, not a runtime
// condition to guard against.
type Runtime struct {
	mu          sync.RWMutex
	components  map[string]Factory
	expressions map[int]ExprFunc
	handlers    map[string]HandlerFunc

	logger    *zap.Logger
	scheduler Scheduler
	encoder   *encoding.Encoder
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime's structured logger. Default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithScheduler replaces the default reactive scheduler. The replacement
// must satisfy the Scheduler contract: immediate first run, serialized
// re-runs per effect, idempotent disposers.
func WithScheduler(s Scheduler) Option {
	return func(rt *Runtime) {
		rt.scheduler = s
	}
}

// WithSignedProps makes props payloads HMAC-verified with the given key.
// Panics on an unusable key; a bad key is a deployment error.
func WithSignedProps(key []byte) Option {
	return func(rt *Runtime) {
		enc, err := encoding.NewEncoder(encoding.ModeSigned, key)
		if err != nil {
			panic(fmt.Sprintf("zenith: failed to create props encoder: %v", err))
		}
		rt.encoder = enc
	}
}

// WithEncryptedProps makes props payloads AES-GCM encrypted with the given
// key. Panics on an unusable key.
func WithEncryptedProps(key []byte) Option {
	return func(rt *Runtime) {
		enc, err := encoding.NewEncoder(encoding.ModeEncrypted, key)
		if err != nil {
			panic(fmt.Sprintf("zenith: failed to create props encoder: %v", err))
		}
		rt.encoder = enc
	}
}

// NewRuntime creates a runtime context. Without options, props payloads are
// plain base64 msgpack, logging is off, and effects run on the built-in
// reactive scheduler.
func NewRuntime(opts ...Option) *Runtime {
	enc, _ := encoding.NewEncoder(encoding.ModePlain, nil)
	rt := &Runtime{
		components:  make(map[string]Factory),
		expressions: make(map[int]ExprFunc),
		handlers:    make(map[string]HandlerFunc),
		logger:      zap.NewNop(),
		scheduler:   reactiveScheduler{},
		encoder:     enc,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// DefineComponent registers a factory under a component name. A nil factory
// is a programmer error and panics.
func (rt *Runtime) DefineComponent(name string, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("zenith: nil factory for component %q", name))
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.components[name] = f
}

// DefineExpression registers a compiled expression under its id.
func (rt *Runtime) DefineExpression(id int, fn ExprFunc) {
	if fn == nil {
		panic(fmt.Sprintf("zenith: nil expression for id %d", id))
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.expressions[id] = fn
}

// DefineExpressions registers a table of expressions; the slice index is
// the id. This is the shape compiled bootstraps emit.
func (rt *Runtime) DefineExpressions(fns []ExprFunc) {
	for id, fn := range fns {
		rt.DefineExpression(id, fn)
	}
}

// DefineHandler registers a named event handler. Handlers are resolved at
// fire time, so registering after hydration still takes effect.
func (rt *Runtime) DefineHandler(name string, fn HandlerFunc) {
	if fn == nil {
		panic(fmt.Sprintf("zenith: nil handler for %q", name))
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.handlers[name] = fn
}

// Encoder returns the props payload codec configured for this runtime.
func (rt *Runtime) Encoder() *encoding.Encoder {
	return rt.encoder
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *zap.Logger {
	return rt.logger
}

// Instantiate creates and returns a component instance outside the scan
// pass, for manual mounting. The caller owns the instance: call Mount to
// drain mount callbacks and Unmount when the element goes away.
func (rt *Runtime) Instantiate(name string, props map[string]any, element *html.Node) (*Instance, error) {
	factory, ok := rt.component(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	in := newInstance(rt, nil, name, element)
	if err := factory(in, props, element); err != nil {
		return nil, err
	}
	return in, nil
}

func (rt *Runtime) component(name string) (Factory, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	f, ok := rt.components[name]
	return f, ok
}

func (rt *Runtime) expression(id int) (ExprFunc, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	fn, ok := rt.expressions[id]
	return fn, ok
}

func (rt *Runtime) handler(name string) (HandlerFunc, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	fn, ok := rt.handlers[name]
	return fn, ok
}

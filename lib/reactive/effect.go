package reactive

// Effect is a computation that re-runs whenever a signal it read changes.
//
// The function runs once immediately on creation. Each run re-tracks
// dependencies from scratch, so conditional reads subscribe only to the
// signals actually touched by the latest run.
type Effect struct {
	fn       func()
	deps     []dependency
	running  bool
	stale    bool
	disposed bool
}

// NewEffect runs fn immediately and returns a handle that re-runs it when
// any tracked signal changes.
func NewEffect(fn func()) *Effect {
	e := &Effect{fn: fn}
	e.run()
	return e
}

// Dispose detaches the effect from all of its dependencies. Safe to call
// more than once; a disposed effect never runs again.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.clearDeps()
}

// Disposer returns Dispose as a plain function, for callers that hold
// effect handles as func().
func (e *Effect) Disposer() func() {
	return e.Dispose
}

func (e *Effect) run() {
	if e.disposed {
		return
	}
	e.clearDeps()
	e.running = true
	prev := active
	active = e
	defer func() {
		active = prev
		e.running = false
	}()
	e.fn()
	// A run that wrote one of its own dependencies is replayed once per
	// invalidation instead of recursing.
	for e.stale && !e.disposed {
		e.stale = false
		e.clearDeps()
		e.fn()
	}
}

func (e *Effect) invalidate() {
	if e.disposed {
		return
	}
	if e.running {
		e.stale = true
		return
	}
	if batchDepth > 0 {
		enqueue(e)
		return
	}
	e.run()
}

func (e *Effect) addDep(d dependency) {
	e.deps = append(e.deps, d)
}

func (e *Effect) clearDeps() {
	for _, d := range e.deps {
		d.unsubscribe(e)
	}
	e.deps = e.deps[:0]
}

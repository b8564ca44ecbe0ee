package reactive

// Memo is a lazily recomputed derived value.
//
// The computation runs on first Get and again only after a dependency
// changed. Reading a memo inside an effect subscribes the effect to the
// memo, not to the memo's own dependencies.
type Memo[T any] struct {
	compute func() T
	value   T
	dirty   bool
	deps    []dependency
	subs    map[subscriber]struct{}
}

// NewMemo creates a memo over compute. Nothing runs until the first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		compute: compute,
		dirty:   true,
		subs:    make(map[subscriber]struct{}),
	}
}

// Get returns the memoized value, recomputing it if a dependency changed
// since the last read, and subscribes the running effect (if any).
func (m *Memo[T]) Get() T {
	if m.dirty {
		m.recompute()
	}
	if active != nil {
		active.addDep(m)
		m.subs[active] = struct{}{}
	}
	return m.value
}

// Peek returns the memoized value without subscribing the caller. The value
// is still recomputed if stale.
func (m *Memo[T]) Peek() T {
	if m.dirty {
		m.recompute()
	}
	return m.value
}

func (m *Memo[T]) recompute() {
	for _, d := range m.deps {
		d.unsubscribe(m)
	}
	m.deps = m.deps[:0]
	prev := active
	active = m
	defer func() { active = prev }()
	m.value = m.compute()
	m.dirty = false
}

// invalidate marks the memo stale and propagates to its own subscribers.
// The recompute itself is deferred to the next Get.
func (m *Memo[T]) invalidate() {
	if m.dirty {
		return
	}
	m.dirty = true
	snapshot := make([]subscriber, 0, len(m.subs))
	for sub := range m.subs {
		snapshot = append(snapshot, sub)
	}
	m.subs = make(map[subscriber]struct{})
	for _, sub := range snapshot {
		sub.invalidate()
	}
}

func (m *Memo[T]) addDep(d dependency) {
	m.deps = append(m.deps, d)
}

func (m *Memo[T]) unsubscribe(sub subscriber) {
	delete(m.subs, sub)
}

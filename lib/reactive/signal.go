package reactive

import "reflect"

// dependency is the signal side of a subscription link.
type dependency interface {
	unsubscribe(s subscriber)
}

// subscriber is the effect/memo side of a subscription link.
type subscriber interface {
	invalidate()
	addDep(d dependency)
}

// active is the subscriber currently being tracked, nil outside effect runs.
var active subscriber

// Signal is a reactive container for a single value.
//
// Get inside a running effect subscribes that effect; Set notifies all
// subscribers. Writes that do not change the value (for comparable dynamic
// types) are ignored.
type Signal[T any] struct {
	value T
	subs  map[subscriber]struct{}
}

// NewSignal creates a signal holding v.
func NewSignal[T any](v T) *Signal[T] {
	return &Signal[T]{
		value: v,
		subs:  make(map[subscriber]struct{}),
	}
}

// Get returns the current value, subscribing the running effect (if any).
func (s *Signal[T]) Get() T {
	if active != nil {
		active.addDep(s)
		s.subs[active] = struct{}{}
	}
	return s.value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set replaces the value and notifies subscribers. A write that leaves a
// comparable value unchanged is a no-op.
func (s *Signal[T]) Set(v T) {
	if !changed(s.value, v) {
		return
	}
	s.value = v
	s.notify()
}

// Update applies fn to the current value and stores the result.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

func (s *Signal[T]) unsubscribe(sub subscriber) {
	delete(s.subs, sub)
}

func (s *Signal[T]) notify() {
	// Snapshot: invalidation may re-run effects that resubscribe.
	snapshot := make([]subscriber, 0, len(s.subs))
	for sub := range s.subs {
		snapshot = append(snapshot, sub)
	}
	for _, sub := range snapshot {
		sub.invalidate()
	}
}

// changed reports whether replacing old with new should notify. Values whose
// dynamic types are comparable are compared directly; everything else
// (slices, maps, funcs) always counts as changed.
func changed(oldV, newV any) bool {
	if oldV == nil && newV == nil {
		return false
	}
	if oldV == nil || newV == nil {
		return true
	}
	to := reflect.TypeOf(oldV)
	tn := reflect.TypeOf(newV)
	if to != tn || !to.Comparable() {
		return true
	}
	return oldV != newV
}

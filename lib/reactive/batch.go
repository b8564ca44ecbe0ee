package reactive

var (
	batchDepth int
	queued     []*Effect
	queuedSet  map[*Effect]struct{}
)

// Batch runs fn with effect re-runs deferred. Every effect invalidated
// during fn runs at most once, after fn returns. Batches nest; the queue
// drains when the outermost batch ends.
func Batch(fn func()) {
	batchDepth++
	defer func() {
		batchDepth--
		if batchDepth == 0 {
			drain()
		}
	}()
	fn()
}

// Untrack runs fn with dependency tracking suspended: signal reads inside
// fn do not subscribe the surrounding effect.
func Untrack(fn func()) {
	prev := active
	active = nil
	defer func() { active = prev }()
	fn()
}

// UntrackValue is Untrack for computations that return a value.
func UntrackValue[T any](fn func() T) T {
	var v T
	Untrack(func() { v = fn() })
	return v
}

func enqueue(e *Effect) {
	if queuedSet == nil {
		queuedSet = make(map[*Effect]struct{})
	}
	if _, ok := queuedSet[e]; ok {
		return
	}
	queuedSet[e] = struct{}{}
	queued = append(queued, e)
}

func drain() {
	for len(queued) > 0 {
		batch := queued
		queued = nil
		queuedSet = nil
		for _, e := range batch {
			e.run()
		}
	}
}

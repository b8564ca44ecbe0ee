// Package reactive implements the signal/effect primitives consumed by the
// hydration engine.
//
// The model is single-goroutine and cooperative: reading a signal inside a
// running effect subscribes the effect to that signal, and writing the signal
// re-runs every subscribed effect (immediately, or once per Batch). There is
// no polling and no background goroutine.
//
//	count := reactive.NewSignal(0)
//	eff := reactive.NewEffect(func() {
//	    fmt.Println("count is", count.Get())
//	})
//	count.Set(1) // effect re-runs
//	eff.Dispose()
//
// Disposers are idempotent and effects are re-entrant safe: an effect that
// writes one of its own dependencies is re-run once after the current run
// completes rather than recursing.
//
// The package is not safe for concurrent use from multiple goroutines. The
// hydration engine drives it from a single goroutine per session, matching
// the host event-loop model it was designed for.
package reactive

// Package signal provides fine-grained reactive cells for view state.
//
// The package implements a small dependency graph:
//
//   - [Signal]: mutable cell that notifies dependents when its value changes
//   - [Memo]: derived value recomputed lazily when a dependency changed
//   - [Effect]: side effect re-run after the batch that changed its inputs
//   - [Runtime]: owns the graph, the tracking context and batching
//
// Dependencies are recorded automatically: any Signal or Memo read while a
// Memo or Effect is computing becomes one of its sources.
//
// # Batching
//
// Writes made inside [Runtime.Batch] are applied immediately but effects
// are flushed once, when the outermost batch returns. A Memo read by those
// effects recomputes at most once per batch, so no observer ever sees a
// snapshot assembled from half-written cells.
//
//	rt := signal.NewRuntime()
//	x, y := signal.New(rt, 1), signal.New(rt, 2)
//	sum := signal.NewMemo(rt, func() int { return x.Get() + y.Get() })
//	signal.NewEffect(rt, func() { fmt.Println(sum.Get()) }) // 3
//	rt.Batch(func() {
//		x.Set(10)
//		y.Set(20)
//	}) // 30, printed once
//
// # Thread Safety
//
// A Runtime and everything created from it must be used from a single
// goroutine. Values read out of the graph are plain Go values and may be
// shared freely.
package signal

package signal

// Effect runs a function whenever the values it read last time change.
type Effect struct {
	n    *node
	fn   func()
	runs int
}

// NewEffect runs fn once immediately and again after every batch that
// changed one of the signals or memos fn read.
func NewEffect(rt *Runtime, fn func()) *Effect {
	e := &Effect{fn: fn}
	e.n = &node{rt: rt, state: dirty, effect: true, compute: e.compute}
	rt.Batch(func() { rt.Untrack(e.n.refresh) })
	return e
}

func (e *Effect) compute() bool {
	e.runs++
	e.fn()
	return false
}

// Runs reports how many times the effect function has run.
func (e *Effect) Runs() int {
	return e.runs
}

// Dispose detaches the effect from the graph. It never runs again.
func (e *Effect) Dispose() {
	if e.n.disposed {
		return
	}
	e.n.disposed = true
	e.n.detach()
}

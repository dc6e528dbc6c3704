package signal

type state uint8

const (
	clean state = iota
	check       // a transitive source may have changed
	dirty       // a direct source changed
)

// node is a vertex of the dependency graph. Signals are nodes without a
// compute function; memos and effects recompute through it.
type node struct {
	rt        *Runtime
	state     state
	sources   []*node
	observers []*node
	compute   func() bool // reports whether the node's value changed
	effect    bool
	queued    bool
	disposed  bool
}

// Runtime owns a reactive graph. The zero value is not usable; call
// NewRuntime.
type Runtime struct {
	observer *node
	depth    int
	queue    []*node
	flushing bool
}

func NewRuntime() *Runtime {
	return &Runtime{}
}

// Batch runs fn and defers effect notification until the outermost batch
// returns. Nested batches are flattened.
func (rt *Runtime) Batch(fn func()) {
	rt.depth++
	func() {
		defer func() { rt.depth-- }()
		fn()
	}()
	if rt.depth == 0 {
		rt.flush()
	}
}

// Untrack runs fn without recording dependencies for the computation that
// is currently running.
func (rt *Runtime) Untrack(fn func()) {
	prev := rt.observer
	rt.observer = nil
	defer func() { rt.observer = prev }()
	fn()
}

func (rt *Runtime) flush() {
	if rt.flushing {
		return
	}
	rt.flushing = true
	defer func() { rt.flushing = false }()

	for len(rt.queue) > 0 {
		q := rt.queue
		rt.queue = nil
		for _, n := range q {
			n.queued = false
			if !n.disposed {
				n.refresh()
			}
		}
	}
}

func (rt *Runtime) track(src *node) {
	obs := rt.observer
	if obs == nil || obs == src {
		return
	}
	for _, s := range obs.sources {
		if s == src {
			return
		}
	}
	obs.sources = append(obs.sources, src)
	src.observers = append(src.observers, obs)
}

func (n *node) mark(st state) {
	if n.state >= st {
		return
	}
	prev := n.state
	n.state = st
	if prev != clean {
		return
	}
	if n.effect && !n.queued && !n.disposed {
		n.queued = true
		n.rt.queue = append(n.rt.queue, n)
	}
	for _, o := range n.observers {
		o.mark(check)
	}
}

// refresh brings n up to date, recomputing only when one of its sources
// actually changed.
func (n *node) refresh() {
	if n.compute == nil {
		return
	}
	if n.state == check {
		for _, src := range n.sources {
			src.refresh()
			if n.state == dirty {
				break
			}
		}
	}
	if n.state == dirty {
		n.update()
		return
	}
	n.state = clean
}

// update recomputes n. The node is clean while compute runs, so a write
// to one of its own sources marks it again and, for effects, requeues it.
func (n *node) update() {
	n.detach()
	n.state = clean

	prev := n.rt.observer
	n.rt.observer = n
	var changed bool
	func() {
		defer func() { n.rt.observer = prev }()
		changed = n.compute()
	}()

	if changed {
		for _, o := range n.observers {
			o.mark(dirty)
		}
	}
}

// detach removes n from the observer lists of all its sources.
func (n *node) detach() {
	for _, src := range n.sources {
		src.removeObserver(n)
	}
	n.sources = n.sources[:0]
}

func (n *node) removeObserver(o *node) {
	for i, x := range n.observers {
		if x == o {
			last := len(n.observers) - 1
			n.observers[i] = n.observers[last]
			n.observers[last] = nil
			n.observers = n.observers[:last]
			return
		}
	}
}

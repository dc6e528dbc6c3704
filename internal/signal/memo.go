package signal

// Memo is a derived value. It is computed on first read and recomputed
// lazily on the next read after any of its dependencies changed.
type Memo[T comparable] struct {
	n          *node
	fn         func() T
	value      T
	computed   bool
	recomputes int
}

func NewMemo[T comparable](rt *Runtime, fn func() T) *Memo[T] {
	m := &Memo[T]{fn: fn}
	m.n = &node{rt: rt, state: dirty, compute: m.compute}
	return m
}

func (m *Memo[T]) compute() bool {
	v := m.fn()
	m.recomputes++
	if m.computed && v == m.value {
		return false
	}
	m.value, m.computed = v, true
	return true
}

// Get returns the up to date value and tracks the memo as a dependency of
// the running computation.
func (m *Memo[T]) Get() T {
	m.refresh()
	m.n.rt.track(m.n)
	return m.value
}

// Peek returns the up to date value without tracking.
func (m *Memo[T]) Peek() T {
	m.refresh()
	return m.value
}

// Recomputes reports how many times the memo function has run.
func (m *Memo[T]) Recomputes() int {
	return m.recomputes
}

func (m *Memo[T]) refresh() {
	if m.n.state == clean {
		return
	}
	m.n.rt.Untrack(m.n.refresh)
}

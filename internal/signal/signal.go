package signal

// Accessor is a read-only view of a reactive value. Calling it inside a
// Memo or Effect records a dependency.
type Accessor[T any] func() T

// Signal is a mutable reactive cell.
type Signal[T comparable] struct {
	n     *node
	value T
}

// New creates a signal holding v.
func New[T comparable](rt *Runtime, v T) *Signal[T] {
	return &Signal[T]{n: &node{rt: rt}, value: v}
}

// Get returns the current value and tracks the signal as a dependency of
// the running computation.
func (s *Signal[T]) Get() T {
	s.n.rt.track(s.n)
	return s.value
}

// Peek returns the current value without tracking.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set stores v. Storing a value equal to the current one does nothing.
// Outside a batch the write is its own batch.
func (s *Signal[T]) Set(v T) {
	if s.value == v {
		return
	}
	s.n.rt.Batch(func() {
		s.value = v
		for _, o := range s.n.observers {
			o.mark(dirty)
		}
	})
}

// Update sets the signal to fn applied to its current value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

func (s *Signal[T]) Runtime() *Runtime {
	return s.n.rt
}

// Getter returns an accessor reading s.
func Getter[T comparable](s *Signal[T]) Accessor[T] {
	return s.Get
}

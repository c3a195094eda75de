package strand

// Poll is the outcome of one poll attempt: either a completed value or
// "not ready yet". The zero value is pending.
type Poll[T any] struct {
	value T
	ready bool
}

// Ready returns a poll carrying a completed value.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{value: v, ready: true}
}

// Pending returns a poll reporting that no value is available yet.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// IsReady reports whether the poll carries a completed value.
func (p Poll[T]) IsReady() bool { return p.ready }

// IsPending reports whether the poll is still waiting for a value.
func (p Poll[T]) IsPending() bool { return !p.ready }

// Value returns the completed value, or the zero value while pending.
func (p Poll[T]) Value() T { return p.value }

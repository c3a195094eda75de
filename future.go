package strand

import "github.com/xraph/strand/reactor"

// Future is a one-shot asynchronous value. Poll either resolves with a
// ready value, fails with an error, or reports pending after arranging
// for w to fire when progress is possible. Once a future resolves or
// fails it must not be polled again.
type Future[T any] interface {
	Poll(w reactor.Waker) (Poll[T], error)
}

// FutureFunc adapts a plain function to the Future interface.
type FutureFunc[T any] func(w reactor.Waker) (Poll[T], error)

// Poll implements Future.
func (f FutureFunc[T]) Poll(w reactor.Waker) (Poll[T], error) { return f(w) }

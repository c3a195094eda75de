package future

import (
	"github.com/xraph/strand"
	"github.com/xraph/strand/reactor"
)

// Ready returns a future already resolved with v.
func Ready[T any](v T) strand.Future[T] {
	return strand.FutureFunc[T](func(reactor.Waker) (strand.Poll[T], error) {
		return strand.Ready(v), nil
	})
}

// Fail returns a future that fails with err on the first poll.
func Fail[T any](err error) strand.Future[T] {
	return strand.FutureFunc[T](func(reactor.Waker) (strand.Poll[T], error) {
		return strand.Pending[T](), err
	})
}

// Never returns a future that stays pending forever. It never arranges
// a wake, so a context blocked on it suspends until something else
// wakes it.
func Never[T any]() strand.Future[T] {
	return strand.FutureFunc[T](func(reactor.Waker) (strand.Poll[T], error) {
		return strand.Pending[T](), nil
	})
}

// Map returns a future that resolves with fn applied to f's value.
// Errors pass through unchanged.
func Map[A, B any](f strand.Future[A], fn func(A) B) strand.Future[B] {
	if f == nil {
		panic("future: nil future")
	}
	if fn == nil {
		panic("future: nil map function")
	}
	return strand.FutureFunc[B](func(w reactor.Waker) (strand.Poll[B], error) {
		p, err := f.Poll(w)
		if err != nil || p.IsPending() {
			return strand.Pending[B](), err
		}
		return strand.Ready(fn(p.Value())), nil
	})
}

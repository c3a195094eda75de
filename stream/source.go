package stream

import (
	"io"

	"github.com/xraph/strand"
	"github.com/xraph/strand/reactor"
)

// Of returns a stream that yields the given values in order and then
// reports exhaustion. Of with no values is equivalent to Empty.
func Of[T any](vals ...T) strand.Stream[T] {
	s := &sliceStream[T]{vals: vals}
	return s
}

type sliceStream[T any] struct {
	vals []T
	next int
}

func (s *sliceStream[T]) PollNext(reactor.Waker) (strand.Poll[T], error) {
	if s.next >= len(s.vals) {
		return strand.Pending[T](), io.EOF
	}
	v := s.vals[s.next]
	s.next++
	return strand.Ready(v), nil
}

// Empty returns a stream that reports io.EOF on the first poll.
func Empty[T any]() strand.Stream[T] {
	return strand.StreamFunc[T](func(reactor.Waker) (strand.Poll[T], error) {
		return strand.Pending[T](), io.EOF
	})
}

// Never returns a stream that stays pending forever. It never arranges
// a wake, so a context blocked on it suspends until something else
// wakes it.
func Never[T any]() strand.Stream[T] {
	return strand.StreamFunc[T](func(reactor.Waker) (strand.Poll[T], error) {
		return strand.Pending[T](), nil
	})
}

// Fail returns a stream that yields err as a single item error and
// reports exhaustion on the poll after that.
func Fail[T any](err error) strand.Stream[T] {
	failed := false
	return strand.StreamFunc[T](func(reactor.Waker) (strand.Poll[T], error) {
		if failed {
			return strand.Pending[T](), io.EOF
		}
		failed = true
		return strand.Pending[T](), err
	})
}

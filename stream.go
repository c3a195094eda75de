package strand

import "github.com/xraph/strand/reactor"

// Stream is an asynchronous sequence of values. PollNext yields the next
// value, reports exhaustion with io.EOF, fails an item with any other
// error, or reports pending after arranging for w to fire. A stream that
// has reported io.EOF must not be polled again.
//
// An item error does not exhaust a stream by itself; whether the stream
// may be polled afterward is part of each consumer's contract.
type Stream[T any] interface {
	PollNext(w reactor.Waker) (Poll[T], error)
}

// StreamFunc adapts a plain function to the Stream interface.
type StreamFunc[T any] func(w reactor.Waker) (Poll[T], error)

// PollNext implements Stream.
func (f StreamFunc[T]) PollNext(w reactor.Waker) (Poll[T], error) { return f(w) }

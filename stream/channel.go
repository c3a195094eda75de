package stream

import (
	"io"
	"sync"

	"github.com/xraph/strand"
	"github.com/xraph/strand/reactor"
)

// Compile-time interface checks.
var _ strand.Stream[int] = (*chanStream[int])(nil)

// FromChannel bridges a Go channel into the poll world. A pump
// goroutine receives from ch and buffers values; polls drain the
// buffer in send order. When ch is closed and the buffer is drained
// the stream reports io.EOF.
//
// The pump goroutine runs until ch is closed. Close the channel to
// release it, even if the consuming context terminates first.
func FromChannel[T any](ch <-chan T) strand.Stream[T] {
	s := &chanStream[T]{}
	go s.pump(ch)
	return s
}

// chanStream hands values from the pump goroutine to the polling side.
// The waker is stored while a poll is pending and fired once per
// hand-off; the polling side replaces it on every pending poll.
type chanStream[T any] struct {
	mu     sync.Mutex
	buf    []T
	closed bool
	waker  reactor.Waker
}

func (s *chanStream[T]) pump(ch <-chan T) {
	for v := range ch {
		s.mu.Lock()
		s.buf = append(s.buf, v)
		w := s.waker
		s.waker = nil
		s.mu.Unlock()
		if w != nil {
			w.Wake()
		}
	}

	s.mu.Lock()
	s.closed = true
	w := s.waker
	s.waker = nil
	s.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

func (s *chanStream[T]) PollNext(w reactor.Waker) (strand.Poll[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buf) > 0 {
		v := s.buf[0]
		s.buf = s.buf[1:]
		if len(s.buf) == 0 {
			s.buf = nil
		}
		return strand.Ready(v), nil
	}
	if s.closed {
		return strand.Pending[T](), io.EOF
	}
	s.waker = w
	return strand.Pending[T](), nil
}

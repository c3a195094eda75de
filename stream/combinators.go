package stream

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/xraph/strand"
	"github.com/xraph/strand/reactor"
)

// Compile-time interface checks.
var _ strand.Stream[int] = (*throttleStream[int])(nil)

// Map returns a stream that yields fn applied to each value of s.
// Exhaustion and item errors pass through unchanged.
func Map[A, B any](s strand.Stream[A], fn func(A) B) strand.Stream[B] {
	if s == nil {
		panic("stream: nil stream")
	}
	if fn == nil {
		panic("stream: nil map function")
	}
	return strand.StreamFunc[B](func(w reactor.Waker) (strand.Poll[B], error) {
		p, err := s.PollNext(w)
		if err != nil || p.IsPending() {
			return strand.Pending[B](), err
		}
		return strand.Ready(fn(p.Value())), nil
	})
}

// Filter returns a stream that yields only the values of s for which
// keep returns true. Dropped values are skipped within the same poll,
// so a poll either yields a kept value, pends, or passes through an
// error from s.
func Filter[T any](s strand.Stream[T], keep func(T) bool) strand.Stream[T] {
	if s == nil {
		panic("stream: nil stream")
	}
	if keep == nil {
		panic("stream: nil filter predicate")
	}
	return strand.StreamFunc[T](func(w reactor.Waker) (strand.Poll[T], error) {
		for {
			p, err := s.PollNext(w)
			if err != nil || p.IsPending() {
				return strand.Pending[T](), err
			}
			if keep(p.Value()) {
				return p, nil
			}
		}
	})
}

// Throttle returns a stream that paces s against l: each delivered
// value spends one token, and when the bucket is empty delivery waits
// out the limiter's refill delay. Values are delayed, never dropped.
// Exhaustion and item errors pass through without spending a token.
// The limiter must allow single-token reservations (burst of at least
// one, or an infinite limit).
func Throttle[T any](s strand.Stream[T], l *rate.Limiter) strand.Stream[T] {
	if s == nil {
		panic("stream: nil stream")
	}
	if l == nil {
		panic("stream: nil throttle limiter")
	}
	if l.Burst() < 1 && l.Limit() != rate.Inf {
		panic("stream: throttle burst must be at least 1")
	}
	return &throttleStream[T]{inner: s, limiter: l}
}

// throttleStream holds back at most one value while it waits out the
// limiter's delay. The inner stream is not polled while a value is
// held. The mutex guards the fields the timer goroutine touches, as
// in Clock.
type throttleStream[T any] struct {
	inner   strand.Stream[T]
	limiter *rate.Limiter

	mu    sync.Mutex
	held  bool
	due   bool
	value T
	waker reactor.Waker
}

func (t *throttleStream[T]) PollNext(w reactor.Waker) (strand.Poll[T], error) {
	t.mu.Lock()
	if t.held {
		if !t.due {
			t.waker = w
			t.mu.Unlock()
			return strand.Pending[T](), nil
		}
		t.held, t.due = false, false
		v := t.value
		var zero T
		t.value = zero
		t.mu.Unlock()
		return strand.Ready(v), nil
	}
	t.mu.Unlock()

	p, err := t.inner.PollNext(w)
	if err != nil || p.IsPending() {
		return strand.Pending[T](), err
	}

	r := t.limiter.Reserve()
	if !r.OK() {
		panic("stream: throttle burst must be at least 1")
	}
	d := r.Delay()
	if d <= 0 {
		return p, nil
	}
	t.mu.Lock()
	t.held = true
	t.value = p.Value()
	t.waker = w
	t.mu.Unlock()
	time.AfterFunc(d, t.fire)
	return strand.Pending[T](), nil
}

// fire runs on the timer goroutine once the held value's delay has
// passed.
func (t *throttleStream[T]) fire() {
	t.mu.Lock()
	t.due = true
	w := t.waker
	t.waker = nil
	t.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

package future

import (
	"sync"
	"time"

	"github.com/xraph/strand"
	"github.com/xraph/strand/backoff"
	"github.com/xraph/strand/reactor"
)

// Compile-time interface checks.
var _ strand.Future[int] = (*retryFuture[int])(nil)

// Retry returns a future that drives futures made by mk until one
// resolves, re-making one after each failure until attempts have been
// used, with s.Delay(n) between attempt n and the next. Resolves with
// the first success or fails with the last attempt's error. A nil
// strategy uses backoff.Default. Panics if mk is nil or attempts is
// less than one.
//
// mk is called once per attempt, lazily, so per-attempt work starts
// only when the previous attempt has failed and its delay elapsed.
func Retry[T any](mk func() strand.Future[T], s backoff.Strategy, attempts int) strand.Future[T] {
	if mk == nil {
		panic("future: nil future factory")
	}
	if attempts < 1 {
		panic("future: attempts must be at least one")
	}
	if s == nil {
		s = backoff.Default()
	}
	return &retryFuture[T]{mk: mk, strategy: s, attempts: attempts}
}

type retryFuture[T any] struct {
	mu       sync.Mutex
	mk       func() strand.Future[T]
	strategy backoff.Strategy
	attempts int

	cur     strand.Future[T]
	attempt int
	lastErr error
	waiting bool
	waker   reactor.Waker
}

func (r *retryFuture[T]) Poll(w reactor.Waker) (strand.Poll[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.waiting {
		r.waker = w
		return strand.Pending[T](), nil
	}
	if r.cur == nil {
		if r.attempt >= r.attempts {
			// Exhausted; tolerate a stray poll after the final error.
			return strand.Pending[T](), r.lastErr
		}
		r.cur = r.mk()
		if r.cur == nil {
			panic("future: factory returned nil future")
		}
		r.attempt++
	}

	p, err := r.cur.Poll(w)
	if err == nil {
		if p.IsPending() {
			return strand.Pending[T](), nil
		}
		return p, nil
	}

	r.cur = nil
	r.lastErr = err
	if r.attempt >= r.attempts {
		return strand.Pending[T](), err
	}
	r.waiting = true
	r.waker = w
	time.AfterFunc(r.strategy.Delay(r.attempt), r.fire)
	return strand.Pending[T](), nil
}

// fire runs on the timer goroutine once the backoff delay has elapsed.
func (r *retryFuture[T]) fire() {
	r.mu.Lock()
	r.waiting = false
	w := r.waker
	r.waker = nil
	r.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

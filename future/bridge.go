package future

import (
	"errors"
	"sync"
	"time"

	"github.com/xraph/strand"
	"github.com/xraph/strand/reactor"
)

// ErrClosed is the failure of a FromChannel future whose channel was
// closed before a value arrived.
var ErrClosed = errors.New("future: channel closed before a value")

// Compile-time interface checks.
var (
	_ strand.Future[int]       = (*goFuture[int])(nil)
	_ strand.Future[time.Time] = (*timeFuture)(nil)
)

// Go runs fn on its own goroutine and returns a future that resolves
// with its result. The goroutine starts immediately; the future hands
// the result to whichever poll comes after fn returns and wakes a poll
// already pending.
func Go[T any](fn func() (T, error)) strand.Future[T] {
	if fn == nil {
		panic("future: nil function")
	}
	f := &goFuture[T]{}
	go func() {
		v, err := fn()
		f.resolve(v, err)
	}()
	return f
}

// FromChannel returns a future that resolves with the first value
// received from ch, or fails with ErrClosed if ch is closed first.
// A goroutine blocks on the receive until one of the two happens.
func FromChannel[T any](ch <-chan T) strand.Future[T] {
	return Go(func() (T, error) {
		v, ok := <-ch
		if !ok {
			var zero T
			return zero, ErrClosed
		}
		return v, nil
	})
}

// goFuture hands a result from the producing goroutine to the polling
// side. The waker is stored while a poll is pending and fired once at
// resolution.
type goFuture[T any] struct {
	mu    sync.Mutex
	val   T
	err   error
	done  bool
	waker reactor.Waker
}

func (f *goFuture[T]) resolve(v T, err error) {
	f.mu.Lock()
	f.val = v
	f.err = err
	f.done = true
	w := f.waker
	f.waker = nil
	f.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

func (f *goFuture[T]) Poll(w reactor.Waker) (strand.Poll[T], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.done {
		f.waker = w
		return strand.Pending[T](), nil
	}
	if f.err != nil {
		return strand.Pending[T](), f.err
	}
	return strand.Ready(f.val), nil
}

// After returns a future that resolves with the wall-clock time once d
// has elapsed. Non-positive durations resolve on the next poll.
func After(d time.Duration) strand.Future[time.Time] {
	f := &timeFuture{}
	time.AfterFunc(d, f.fire)
	return f
}

type timeFuture struct {
	mu    sync.Mutex
	at    time.Time
	done  bool
	waker reactor.Waker
}

func (f *timeFuture) fire() {
	f.mu.Lock()
	f.at = time.Now()
	f.done = true
	w := f.waker
	f.waker = nil
	f.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

func (f *timeFuture) Poll(w reactor.Waker) (strand.Poll[time.Time], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return strand.Ready(f.at), nil
	}
	f.waker = w
	return strand.Pending[time.Time](), nil
}

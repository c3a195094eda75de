package future_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/xraph/strand"
	"github.com/xraph/strand/future"
	"github.com/xraph/strand/reactor"
	"github.com/xraph/strand/stream"
)

// signalWaker records wakes on a buffered channel so tests can block
// until one arrives.
type signalWaker chan struct{}

func (w signalWaker) Wake() {
	select {
	case w <- struct{}{}:
	default:
	}
}

func waitWake(t *testing.T, w signalWaker) {
	t.Helper()
	select {
	case <-w:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for wake")
	}
}

// resolve polls f until it resolves, blocking on the waker between
// pending polls, and returns the outcome.
func resolve[T any](t *testing.T, f strand.Future[T]) (T, error) {
	t.Helper()
	w := make(signalWaker, 1)
	for {
		p, err := f.Poll(w)
		if err != nil {
			var zero T
			return zero, err
		}
		if p.IsReady() {
			return p.Value(), nil
		}
		waitWake(t, w)
	}
}

func TestReady_ResolvesImmediately(t *testing.T) {
	p, err := future.Ready(42).Poll(reactor.NopWaker)
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if !p.IsReady() || p.Value() != 42 {
		t.Errorf("Poll = (%v, %d), want ready 42", p.IsReady(), p.Value())
	}
}

func TestFail_FailsImmediately(t *testing.T) {
	sentinel := errors.New("no result")
	p, err := future.Fail[int](sentinel).Poll(reactor.NopWaker)
	if !errors.Is(err, sentinel) {
		t.Fatalf("Poll err = %v, want %v", err, sentinel)
	}
	if p.IsReady() {
		t.Error("Fail resolved with a value alongside the error")
	}
}

func TestNever_StaysPendingWithoutWaking(t *testing.T) {
	f := future.Never[int]()
	w := make(signalWaker, 1)
	for range 3 {
		p, err := f.Poll(w)
		if err != nil {
			t.Fatalf("Poll error: %v", err)
		}
		if p.IsReady() {
			t.Fatal("Never resolved")
		}
	}
	select {
	case <-w:
		t.Error("Never arranged a wake")
	default:
	}
}

func TestMap_TransformsValue(t *testing.T) {
	f := future.Map(future.Ready(21), func(v int) int { return v * 2 })
	p, err := f.Poll(reactor.NopWaker)
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if !p.IsReady() || p.Value() != 42 {
		t.Errorf("Poll = (%v, %d), want ready 42", p.IsReady(), p.Value())
	}
}

func TestMap_PassesErrorThroughWithoutCallingFn(t *testing.T) {
	sentinel := errors.New("upstream failed")
	called := false
	f := future.Map(future.Fail[int](sentinel), func(v int) int {
		called = true
		return v
	})
	if _, err := f.Poll(reactor.NopWaker); !errors.Is(err, sentinel) {
		t.Fatalf("Poll err = %v, want %v", err, sentinel)
	}
	if called {
		t.Error("map function ran on a failed future")
	}
}

func TestMap_PendingPassesThrough(t *testing.T) {
	f := future.Map(future.Never[int](), func(v int) int { return v })
	p, err := f.Poll(reactor.NopWaker)
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if p.IsReady() {
		t.Error("Map over Never resolved")
	}
}

func TestMap_NilFunctionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Map with nil function did not panic")
		}
	}()
	future.Map[int, int](future.Ready(1), nil)
}

// ──────────────────────────────────────────────────
// Nesting a context as a future job
// ──────────────────────────────────────────────────

type sumState struct{ total int }

// summer sums its primary values and resolves with the total.
type summer struct{}

func (summer) Start(*sumState, *strand.Context[sumState, int, int]) {}

func (summer) Call(s *sumState, _ *strand.Context[sumState, int, int], m int, err error) (strand.Poll[int], error) {
	if err != nil {
		return strand.Pending[int](), err
	}
	s.total += m
	return strand.Pending[int](), nil
}

func (summer) Finished(s *sumState, _ *strand.Context[sumState, int, int]) (strand.Poll[int], error) {
	return strand.Ready(s.total), nil
}

type collectState struct{ got []string }

// collector gathers its string messages and joins them at the end.
type collector struct{}

func (collector) Start(*collectState, *strand.Context[collectState, string, string]) {}

func (collector) Call(s *collectState, _ *strand.Context[collectState, string, string], m string, err error) (strand.Poll[string], error) {
	if err != nil {
		return strand.Pending[string](), err
	}
	s.got = append(s.got, m)
	return strand.Pending[string](), nil
}

func (collector) Finished(s *collectState, _ *strand.Context[collectState, string, string]) (strand.Poll[string], error) {
	return strand.Ready(strings.Join(s.got, "+")), nil
}

func TestMap_NestsContextAsFutureJob(t *testing.T) {
	h := reactor.NewCore().Handle()
	child := strand.New[sumState, int, int](h, summer{}, sumState{}, stream.Of(1, 2, 3)).Build()

	parent := strand.New[collectState, string, string](h, collector{}, collectState{}, stream.Of("a")).
		AddFuture(future.Map[int, string](child, func(total int) string {
			return fmt.Sprintf("sum=%d", total)
		})).
		Build()

	p, err := parent.Poll(reactor.NopWaker)
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if !p.IsReady() {
		t.Fatal("parent did not finish")
	}
	if got, want := p.Value(), "a+sum=6"; got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}

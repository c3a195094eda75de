package stream_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/xraph/strand"
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

// drain polls s until io.EOF, blocking on the waker between pending
// polls, and returns the values in delivery order.
func drain[T any](t *testing.T, s strand.Stream[T]) []T {
	t.Helper()
	w := make(signalWaker, 1)
	var got []T
	for {
		p, err := s.PollNext(w)
		if err == io.EOF {
			return got
		}
		if err != nil {
			t.Fatalf("PollNext error: %v", err)
		}
		if p.IsReady() {
			got = append(got, p.Value())
			continue
		}
		waitWake(t, w)
	}
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOf_YieldsInOrderThenEOF(t *testing.T) {
	s := stream.Of(1, 2, 3)
	for _, want := range []int{1, 2, 3} {
		p, err := s.PollNext(reactor.NopWaker)
		if err != nil {
			t.Fatalf("PollNext error: %v", err)
		}
		if !p.IsReady() || p.Value() != want {
			t.Fatalf("PollNext = (%v, %v), want ready %d", p.IsReady(), p.Value(), want)
		}
	}
	if _, err := s.PollNext(reactor.NopWaker); err != io.EOF {
		t.Errorf("PollNext after last value: err = %v, want io.EOF", err)
	}
}

func TestOf_NoValuesIsEmpty(t *testing.T) {
	if _, err := stream.Of[string]().PollNext(reactor.NopWaker); err != io.EOF {
		t.Errorf("PollNext = %v, want io.EOF", err)
	}
}

func TestEmpty_ReportsEOFImmediately(t *testing.T) {
	if _, err := stream.Empty[int]().PollNext(reactor.NopWaker); err != io.EOF {
		t.Errorf("PollNext = %v, want io.EOF", err)
	}
}

func TestNever_StaysPendingWithoutWaking(t *testing.T) {
	s := stream.Never[int]()
	w := make(signalWaker, 1)
	for range 3 {
		p, err := s.PollNext(w)
		if err != nil {
			t.Fatalf("PollNext error: %v", err)
		}
		if p.IsReady() {
			t.Fatal("Never yielded a value")
		}
	}
	select {
	case <-w:
		t.Error("Never arranged a wake")
	default:
	}
}

func TestFail_YieldsErrorOnceThenEOF(t *testing.T) {
	sentinel := errors.New("source failed")
	s := stream.Fail[int](sentinel)

	p, err := s.PollNext(reactor.NopWaker)
	if !errors.Is(err, sentinel) {
		t.Fatalf("first PollNext err = %v, want %v", err, sentinel)
	}
	if p.IsReady() {
		t.Error("Fail yielded a value alongside the error")
	}
	if _, err := s.PollNext(reactor.NopWaker); err != io.EOF {
		t.Errorf("second PollNext err = %v, want io.EOF", err)
	}
}

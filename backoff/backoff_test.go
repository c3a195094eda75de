package backoff_test

import (
	"testing"
	"time"

	"github.com/xraph/strand/backoff"
)

func TestConstant_ReturnsFixedDelay(t *testing.T) {
	c := backoff.Constant(5 * time.Second)
	for attempt := 1; attempt <= 10; attempt++ {
		if got := c.Delay(attempt); got != 5*time.Second {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, 5*time.Second)
		}
	}
}

func TestLinear_GrowsPerAttempt(t *testing.T) {
	l := backoff.Linear(time.Second, time.Minute)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 3 * time.Second},
		{10, 10 * time.Second},
	}
	for _, tt := range tests {
		if got := l.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestLinear_CapsAtMax(t *testing.T) {
	l := backoff.Linear(time.Second, 5*time.Second)

	if got := l.Delay(10); got != 5*time.Second {
		t.Errorf("Delay(10) = %v, want %v", got, 5*time.Second)
	}
	if got := l.Delay(100); got != 5*time.Second {
		t.Errorf("Delay(100) = %v, want %v", got, 5*time.Second)
	}
}

func TestLinear_ZeroMaxMeansNoCap(t *testing.T) {
	l := backoff.Linear(time.Second, 0)

	if got := l.Delay(90); got != 90*time.Second {
		t.Errorf("Delay(90) = %v, want %v", got, 90*time.Second)
	}
}

func TestExponential_DoublesEachAttempt(t *testing.T) {
	e := backoff.Exponential(time.Second, time.Hour)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
	}
	for _, tt := range tests {
		if got := e.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponential_CapsAtMax(t *testing.T) {
	e := backoff.Exponential(time.Second, 10*time.Second)

	// Attempt 5 would be 16s uncapped.
	if got := e.Delay(5); got != 10*time.Second {
		t.Errorf("Delay(5) = %v, want %v", got, 10*time.Second)
	}
	if got := e.Delay(20); got != 10*time.Second {
		t.Errorf("Delay(20) = %v, want %v", got, 10*time.Second)
	}
}

func TestStrategyFunc_Adapts(t *testing.T) {
	var got int
	s := backoff.StrategyFunc(func(attempt int) time.Duration {
		got = attempt
		return 7 * time.Millisecond
	})

	if d := s.Delay(3); d != 7*time.Millisecond {
		t.Errorf("Delay(3) = %v, want %v", d, 7*time.Millisecond)
	}
	if got != 3 {
		t.Errorf("adapted func saw attempt %d, want 3", got)
	}
}

func TestFullJitter_WithinBaseBounds(t *testing.T) {
	j := backoff.FullJitter(backoff.Constant(10 * time.Second))

	for range 100 {
		got := j.Delay(1)
		if got < 0 || got > 10*time.Second {
			t.Fatalf("Delay(1) = %v, want in [0, %v]", got, 10*time.Second)
		}
	}
}

func TestFullJitter_ProducesVariance(t *testing.T) {
	j := backoff.FullJitter(backoff.Exponential(time.Second, time.Minute))

	seen := make(map[time.Duration]bool)
	for range 100 {
		seen[j.Delay(3)] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected variance in jitter, got only %d distinct values", len(seen))
	}
}

func TestDefault_JitteredExponential(t *testing.T) {
	s := backoff.Default()
	if s == nil {
		t.Fatal("Default() returned nil")
	}

	// First retry jitters over a 1s base; late retries cap at 1m.
	if d := s.Delay(1); d < 0 || d > time.Second {
		t.Errorf("Delay(1) = %v, want in [0, 1s]", d)
	}
	if d := s.Delay(100); d < 0 || d > time.Minute {
		t.Errorf("Delay(100) = %v, want in [0, 1m]", d)
	}
}

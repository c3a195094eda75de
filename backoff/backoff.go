// Package backoff provides pluggable delay strategies for retried
// asynchronous work, most notably future.Retry.
//
// A Strategy maps the retry attempt number to a wait. Strategies are
// stateless and safe for concurrent use; a custom one is a one-liner
// with StrategyFunc, and FullJitter decorates any base strategy with
// randomized delays.
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Strategy computes the delay before a retry attempt.
type Strategy interface {
	// Delay returns how long to wait before retry attempt n (1-indexed).
	// Attempt 1 is the first retry after the initial failure.
	Delay(attempt int) time.Duration
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(attempt int) time.Duration

// Delay implements Strategy.
func (f StrategyFunc) Delay(attempt int) time.Duration { return f(attempt) }

// Constant waits the same interval before every attempt.
func Constant(interval time.Duration) Strategy {
	return StrategyFunc(func(int) time.Duration { return interval })
}

// Linear grows the wait by initial each attempt: initial, 2*initial,
// 3*initial, capped at maxDelay. A non-positive maxDelay means no cap.
func Linear(initial, maxDelay time.Duration) Strategy {
	return StrategyFunc(func(attempt int) time.Duration {
		return capAt(initial*time.Duration(attempt), maxDelay)
	})
}

// Exponential doubles the wait each attempt: initial, 2*initial,
// 4*initial, capped at maxDelay. A non-positive maxDelay means no cap.
func Exponential(initial, maxDelay time.Duration) Strategy {
	return StrategyFunc(func(attempt int) time.Duration {
		d := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
		return capAt(d, maxDelay)
	})
}

// FullJitter decorates s so each delay is a uniformly random duration
// in [0, s.Delay(attempt)]. This prevents thundering herd when many
// retries happen simultaneously.
func FullJitter(s Strategy) Strategy {
	return StrategyFunc(func(attempt int) time.Duration {
		return time.Duration(rand.Float64() * float64(s.Delay(attempt))) //nolint:gosec // jitter intentionally uses non-crypto rand
	})
}

// Default returns the strategy used when none is configured: full
// jitter over an exponential base with 1s initial and 1m cap.
func Default() Strategy {
	return FullJitter(Exponential(time.Second, time.Minute))
}

func capAt(d, maxDelay time.Duration) time.Duration {
	if maxDelay > 0 && d > maxDelay {
		return maxDelay
	}
	return d
}

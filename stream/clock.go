package stream

import (
	"fmt"
	"io"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/xraph/strand"
	"github.com/xraph/strand/reactor"
)

// Compile-time interface checks.
var _ strand.Stream[time.Time] = (*Clock)(nil)

// cronParser supports standard 5-field cron and descriptors like "@every 30s".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// Ticker returns a clock that fires every d, yielding the wall-clock
// time of each fire. Panics if d is not positive.
func Ticker(d time.Duration) *Clock {
	if d <= 0 {
		panic("stream: non-positive ticker interval")
	}
	return &Clock{next: func(t time.Time) time.Time { return t.Add(d) }}
}

// Cron returns a clock that fires at the times given by a cron
// expression, standard 5-field or a descriptor like "@every 30s".
// Sub-second intervals are not expressible; use Ticker for those.
func Cron(expr string) (*Clock, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron schedule %q: %w", expr, err)
	}
	return &Clock{next: sched.Next}, nil
}

// Clock is a stream of wall-clock fire times driven by a process
// timer. The first poll arms the timer; each fire re-arms it for the
// time next returns. Fires the consumer has not yet observed coalesce,
// so a slow consumer sees only the most recent fire time.
//
// Stop ends the stream and releases the timer. A clock a context no
// longer polls keeps its timer armed until Stop is called.
type Clock struct {
	mu      sync.Mutex
	next    func(time.Time) time.Time
	timer   *time.Timer
	due     bool
	at      time.Time
	done    bool
	stopped bool
	waker   reactor.Waker
}

func (c *Clock) PollNext(w reactor.Waker) (strand.Poll[time.Time], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return strand.Pending[time.Time](), io.EOF
	}
	if c.due {
		c.due = false
		return strand.Ready(c.at), nil
	}
	// done is checked after due so the final fire is still delivered.
	if c.done {
		return strand.Pending[time.Time](), io.EOF
	}
	if c.timer == nil {
		at := c.next(time.Now())
		if at.IsZero() {
			c.done = true
			return strand.Pending[time.Time](), io.EOF
		}
		c.timer = time.AfterFunc(time.Until(at), c.fire)
	}
	c.waker = w
	return strand.Pending[time.Time](), nil
}

// fire runs on the timer goroutine: record the fire, re-arm for the
// next schedule time, and wake any pending poll. A Stop can land while
// a fire is already in flight; it must not re-arm the timer then.
func (c *Clock) fire() {
	c.mu.Lock()
	if c.stopped || c.done {
		c.mu.Unlock()
		return
	}
	now := time.Now()
	c.due = true
	c.at = now
	if next := c.next(now); next.IsZero() {
		c.done = true
	} else {
		c.timer.Reset(time.Until(next))
	}
	w := c.waker
	c.waker = nil
	c.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// Stop ends the stream: the timer is cancelled and subsequent polls
// report io.EOF, discarding any undelivered fire. Safe to call from
// any goroutine and more than once.
func (c *Clock) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
	w := c.waker
	c.waker = nil
	c.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

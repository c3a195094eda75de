package reactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/xraph/strand/id"
)

// ErrTaskPanicked is returned by Core.Run when the main task panics. The
// panic value and stack are logged before the error is returned.
var ErrTaskPanicked = errors.New("reactor: task panicked")

// ──────────────────────────────────────────────────
// Core
// ──────────────────────────────────────────────────

// Core is a single-threaded task executor. Tasks enter through Run (the
// main task) or Handle.Spawn (detached tasks) and are polled one at a
// time, in FIFO wake order, on the goroutine that calls Run.
type Core struct {
	id     id.CoreID
	logger *slog.Logger

	mu   sync.Mutex
	runq []*entry

	// wakec is signalled after every push so Run can park when the
	// queue is empty without missing work.
	wakec chan struct{}

	running atomic.Bool
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the logger used for panic reports and debug output.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Core) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCore creates an idle Core. Tasks may be spawned onto it before Run
// is called; they are held in the queue until a Run drains them.
func NewCore(opts ...Option) *Core {
	c := &Core{
		id:     id.NewCoreID(),
		logger: slog.Default(),
		wakec:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.Any("core_id", c.id))
	return c
}

// ID returns the core's unique identifier.
func (c *Core) ID() id.CoreID { return c.id }

// Handle returns a handle that spawns tasks onto this core. Safe to call
// from any goroutine.
func (c *Core) Handle() Handle { return Handle{core: c} }

// Run drives main to completion on the calling goroutine, polling
// detached tasks as their wakes come due. It returns nil when main
// completes, ctx.Err() if the context is cancelled first, or an error
// wrapping ErrTaskPanicked if main panics. A panic in a detached task is
// logged and the task dropped; Run keeps going.
//
// Run panics if called while another Run on the same Core is still in
// flight. Sequential Runs are fine: detached tasks left over from an
// earlier Run resume with the next one.
func (c *Core) Run(ctx context.Context, main Task) error {
	if main == nil {
		panic("reactor: Run with nil task")
	}
	if !c.running.CompareAndSwap(false, true) {
		panic("reactor: Core.Run called concurrently")
	}
	defer c.running.Store(false)

	me := &entry{task: main, core: c}
	me.queued.Store(true)
	c.push(me)

	c.logger.Debug("core running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e := c.next()
		if e == nil {
			select {
			case <-c.wakec:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if e.done {
			// Stale wake for a completed task. queued stays set, so
			// the entry can never be requeued again.
			continue
		}

		// Clear before polling so wakes that arrive mid-poll requeue
		// the task instead of being lost.
		e.queued.Store(false)

		done, err := c.poll(e)
		if done || err != nil {
			e.done = true
			e.queued.Store(true)
		}
		if e != me {
			continue
		}
		if err != nil {
			return err
		}
		if done {
			c.logger.Debug("core finished")
			return nil
		}
	}
}

// poll runs one task poll, converting panics into errors.
func (c *Core) poll(e *entry) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("task panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return e.task.Poll(waker{e: e}), nil
}

func (c *Core) push(e *entry) {
	c.mu.Lock()
	c.runq = append(c.runq, e)
	c.mu.Unlock()

	select {
	case c.wakec <- struct{}{}:
	default:
	}
}

func (c *Core) next() *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.runq) == 0 {
		return nil
	}
	e := c.runq[0]
	c.runq = c.runq[1:]
	return e
}

// ──────────────────────────────────────────────────
// Handle
// ──────────────────────────────────────────────────

// Handle schedules tasks onto a Core. Handles are cheap to copy and safe
// for concurrent use. The zero value is not usable; obtain one from
// Core.Handle.
type Handle struct {
	core *Core
}

// Spawn queues t as a detached task. The task is polled on the core's
// Run goroutine; its completion is not observable through the handle and
// panics inside it are logged and dropped. Safe to call from any
// goroutine, including from inside a poll running on the same core.
func (h Handle) Spawn(t Task) {
	if h.core == nil {
		panic("reactor: Spawn on zero Handle")
	}
	if t == nil {
		panic("reactor: Spawn with nil task")
	}
	e := &entry{task: t, core: h.core}
	e.queued.Store(true)
	h.core.push(e)
}

// ──────────────────────────────────────────────────
// Run queue entries
// ──────────────────────────────────────────────────

// entry is one task in the run queue.
type entry struct {
	task Task
	core *Core

	// queued is true while the entry sits in the run queue, and is left
	// set once the task completes. Wakers CAS it so duplicate wakes
	// between polls collapse into one requeue.
	queued atomic.Bool

	// done is only touched by the Run goroutine.
	done bool
}

// waker requeues its entry on Wake. Safe from any goroutine.
type waker struct {
	e *entry
}

func (w waker) Wake() {
	if !w.e.queued.CompareAndSwap(false, true) {
		return
	}
	w.e.core.push(w.e)
}

package strand

import (
	"io"
	"log/slog"
	"time"

	"github.com/xraph/strand/hook"
	"github.com/xraph/strand/id"
	"github.com/xraph/strand/reactor"
)

// Context drives one service: it owns the shared state cell, the service
// instance, the primary message stream, and the growable collection of
// secondary jobs. Context implements Future over the service's result
// type; each Poll runs the cooperative sweep loop until a pass makes no
// progress or a callback produces the terminal result.
//
// A Context is single-threaded. It must only be polled by one driver,
// on one goroutine, and must not be polled again after it terminates
// (both violations panic). The registration methods are callable from
// service callbacks and from task polls — jobs registered mid-sweep are
// picked up within the same sweep.
type Context[S, M, R any] struct {
	id         id.ContextID
	name       string
	baseLogger *slog.Logger
	logger     *slog.Logger
	hooks      *hook.Registry
	handle     reactor.Handle

	cell    *Cell[S]
	srv     Service[S, M, R]
	factory func(*Context[S, M, R]) Service[S, M, R]
	primary Stream[M]

	items []item[S, M, R]

	started     bool
	primaryDone bool
	polling     bool
	done        bool

	startedAt time.Time

	// waker from the most recent poll; sink handles use it to request a
	// re-poll when values are queued between polls.
	waker reactor.Waker
}

var _ Future[any] = (*Context[struct{}, int, any])(nil)

// ──────────────────────────────────────────────────
// Accessors
// ──────────────────────────────────────────────────

// ID returns the context's unique identifier.
func (c *Context[S, M, R]) ID() id.ContextID { return c.id }

// Name returns the context's configured name, or "" if none was set.
func (c *Context[S, M, R]) Name() string { return c.name }

// Handle returns the reactor handle the context was built with. Services
// use it to spawn independent units on the same executor.
func (c *Context[S, M, R]) Handle() reactor.Handle { return c.handle }

// Logger returns the context's logger, carrying its ID and name.
func (c *Context[S, M, R]) Logger() *slog.Logger { return c.logger }

// Share returns the shared state cell, for external observers and for
// constructing sibling contexts over the same state.
func (c *Context[S, M, R]) Share() *Cell[S] { return c.cell }

func (c *Context[S, M, R]) info() hook.Info {
	return hook.Info{ID: c.id, Name: c.name}
}

// ──────────────────────────────────────────────────
// Job registration
// ──────────────────────────────────────────────────

// AddTask attaches a one-shot task polled with access to the state and
// service. Its value or error is forwarded to Call, then it detaches.
func (c *Context[S, M, R]) AddTask(t Task[S, M, R]) {
	if t == nil {
		panic("strand: nil task")
	}
	c.attach(item[S, M, R]{kind: kindTask, task: t})
}

// Spawn attaches a fire-and-forget task. Its value is discarded and so
// is its error: spawned failures never reach Call, surfacing only
// through the SpawnedError hook and a debug log line.
func (c *Context[S, M, R]) Spawn(t Task[S, M, R]) {
	if t == nil {
		panic("strand: nil task")
	}
	c.attach(item[S, M, R]{kind: kindSpawned, task: t})
}

// AddFuture attaches a one-shot future. Its value or error is forwarded
// to Call, then it detaches.
func (c *Context[S, M, R]) AddFuture(f Future[M]) {
	if f == nil {
		panic("strand: nil future")
	}
	c.attach(item[S, M, R]{kind: kindFuture, future: f})
}

// AddStream attaches a secondary stream. Every value goes to Call and
// the stream stays attached; exhaustion detaches it silently; an item
// error goes to Call and detaches it.
func (c *Context[S, M, R]) AddStream(s Stream[M]) {
	if s == nil {
		panic("strand: nil stream")
	}
	c.attach(item[S, M, R]{kind: kindStream, stream: s})
}

// AddDeferredStream attaches a future that resolves to a secondary
// stream. On resolution the job is rewritten in place into a stream job,
// indistinguishable from one attached directly; a resolution error goes
// to Call and detaches it.
func (c *Context[S, M, R]) AddDeferredStream(f Future[Stream[M]]) {
	if f == nil {
		panic("strand: nil deferred stream")
	}
	c.attach(item[S, M, R]{kind: kindDeferred, deferred: f})
}

// AddSinkJob attaches a low-level sink job. A ready result or an error
// from its poll terminates the context, bypassing Call. Sink jobs are
// never detached and their polls never count as sweep progress.
//
// Most callers want the AddSink bridge instead.
func (c *Context[S, M, R]) AddSinkJob(s SinkJob[S, M, R]) {
	if s == nil {
		panic("strand: nil sink job")
	}
	c.attach(item[S, M, R]{kind: kindSink, sink: s})
}

func (c *Context[S, M, R]) attach(it item[S, M, R]) {
	if c.done {
		panic("strand: job added to terminated context")
	}
	c.items = append(c.items, it)
	c.hooks.EmitJobAdded(c.info(), it.kind.hookKind())
}

// ──────────────────────────────────────────────────
// Poll loop
// ──────────────────────────────────────────────────

// Poll advances the context: primary stream first, then every job, and
// again until a full sweep makes no progress. It returns the service's
// terminal result once a callback or sink job produces one; afterward
// the context must not be polled again.
func (c *Context[S, M, R]) Poll(w reactor.Waker) (Poll[R], error) {
	if c.done {
		panic("strand: context polled after termination")
	}
	if c.polling {
		panic("strand: reentrant poll of running context")
	}
	c.polling = true
	defer func() { c.polling = false }()

	c.waker = w
	state := c.cell.checkOut()
	defer c.cell.checkIn()

	pollStart := time.Now()
	defer func() {
		c.hooks.EmitPollCompleted(c.info(), time.Since(pollStart))
	}()

	if !c.started {
		c.started = true
		c.startedAt = pollStart
		if c.factory != nil {
			c.srv = c.factory(c)
			c.factory = nil
			if c.srv == nil {
				panic("strand: deferred factory returned nil service")
			}
		}
		c.srv.Start(state, c)
		c.hooks.EmitContextStarted(c.info())
		c.logger.Debug("context started")
	}

	for {
		res, progressed, err := c.sweep(state, w)
		if err != nil || res.IsReady() {
			return c.terminate(res, err)
		}
		if !progressed {
			return Pending[R](), nil
		}
	}
}

// sweep is one full pass: the primary stream once, then each job once.
// A non-pending result or error is the context's terminal outcome.
func (c *Context[S, M, R]) sweep(state *S, w reactor.Waker) (Poll[R], bool, error) {
	progressed := false

	if !c.primaryDone {
		p, err := c.primary.PollNext(w)
		switch {
		case err == io.EOF:
			c.primaryDone = true
			progressed = true
			res, rerr := c.srv.Finished(state, c)
			if rerr != nil || res.IsReady() {
				return res, true, rerr
			}
		case err != nil:
			progressed = true
			var zero M
			res, rerr := c.deliver(state, hook.KindPrimary, zero, err)
			if rerr != nil || res.IsReady() {
				return res, true, rerr
			}
		case p.IsReady():
			progressed = true
			res, rerr := c.deliver(state, hook.KindPrimary, p.Value(), nil)
			if rerr != nil || res.IsReady() {
				return res, true, rerr
			}
		}
	}

	// Jobs, by index; the length is re-read every step because a
	// callback may append, and removal swaps the last element in
	// without advancing the index.
	i := 0
	for i < len(c.items) {
		it := &c.items[i]
		switch it.kind {
		case kindTask:
			p, err := it.task.Poll(state, c.srv, c, w)
			if err == nil && p.IsPending() {
				i++
				continue
			}
			progressed = true
			var msg M
			if err == nil {
				msg = p.Value()
			}
			res, rerr := c.deliver(state, hook.KindTask, msg, err)
			if rerr != nil || res.IsReady() {
				return res, true, rerr
			}
			c.detach(i, kindTask)

		case kindSpawned:
			p, err := it.task.Poll(state, c.srv, c, w)
			if err == nil && p.IsPending() {
				i++
				continue
			}
			progressed = true
			if err != nil {
				c.logger.Debug("spawned task failed", slog.String("error", err.Error()))
				c.hooks.EmitSpawnedError(c.info(), err)
			}
			c.detach(i, kindSpawned)

		case kindFuture:
			p, err := it.future.Poll(w)
			if err == nil && p.IsPending() {
				i++
				continue
			}
			progressed = true
			var msg M
			if err == nil {
				msg = p.Value()
			}
			res, rerr := c.deliver(state, hook.KindFuture, msg, err)
			if rerr != nil || res.IsReady() {
				return res, true, rerr
			}
			c.detach(i, kindFuture)

		case kindStream:
			p, err := it.stream.PollNext(w)
			switch {
			case err == io.EOF:
				progressed = true
				c.detach(i, kindStream)
			case err != nil:
				progressed = true
				var zero M
				res, rerr := c.deliver(state, hook.KindStream, zero, err)
				if rerr != nil || res.IsReady() {
					return res, true, rerr
				}
				c.detach(i, kindStream)
			case p.IsReady():
				progressed = true
				res, rerr := c.deliver(state, hook.KindStream, p.Value(), nil)
				if rerr != nil || res.IsReady() {
					return res, true, rerr
				}
				i++
			default:
				i++
			}

		case kindDeferred:
			p, err := it.deferred.Poll(w)
			switch {
			case err != nil:
				progressed = true
				var zero M
				res, rerr := c.deliver(state, hook.KindDeferred, zero, err)
				if rerr != nil || res.IsReady() {
					return res, true, rerr
				}
				c.detach(i, kindDeferred)
			case p.IsReady():
				s := p.Value()
				if s == nil {
					panic("strand: deferred stream resolved to nil")
				}
				progressed = true
				// Upgrade in place; the resolved stream is polled next,
				// at this same index, within this sweep. Indexed writes,
				// not it: the poll may have grown the slice under us.
				c.items[i].kind = kindStream
				c.items[i].stream = s
				c.items[i].deferred = nil
				c.hooks.EmitJobFinished(c.info(), hook.KindDeferred)
				c.hooks.EmitJobAdded(c.info(), hook.KindStream)
			default:
				i++
			}

		case kindSink:
			res, err := it.sink.PollSink(state, c.srv, c, w)
			if err != nil || res.IsReady() {
				return res, true, err
			}
			i++
		}
	}

	return Pending[R](), progressed, nil
}

// deliver forwards one value or error into the service's Call callback.
func (c *Context[S, M, R]) deliver(state *S, src hook.JobKind, msg M, msgErr error) (Poll[R], error) {
	res, err := c.srv.Call(state, c, msg, msgErr)
	c.hooks.EmitMessageDelivered(c.info(), src, msgErr)
	return res, err
}

// detach swap-removes the job at index i. The caller must not advance
// the index: the element swapped in from the tail is polled next.
func (c *Context[S, M, R]) detach(i int, kind itemKind) {
	last := len(c.items) - 1
	if i != last {
		c.items[i] = c.items[last]
	}
	c.items[last] = item[S, M, R]{}
	c.items = c.items[:last]
	c.hooks.EmitJobFinished(c.info(), kind.hookKind())
}

// terminate ends the context with its definitive result, abandoning the
// primary stream and every outstanding job unconditionally. This is an
// abrupt cancellation, not a graceful drain: spawned background work
// that has not completed simply never runs again.
func (c *Context[S, M, R]) terminate(res Poll[R], err error) (Poll[R], error) {
	c.done = true

	// Live sink handles turn dead before their jobs are dropped, so a
	// later Send fails with ErrSinkDetached instead of queueing into
	// nothing.
	for i := range c.items {
		if c.items[i].kind == kindSink {
			if d, ok := c.items[i].sink.(detachable); ok {
				d.detachSink()
			}
		}
	}
	c.items = nil
	c.primary = nil
	c.srv = nil
	c.factory = nil

	elapsed := time.Since(c.startedAt)
	c.hooks.EmitContextFinished(c.info(), err, elapsed)
	if err != nil {
		c.logger.Debug("context failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", elapsed),
		)
	} else {
		c.logger.Debug("context finished", slog.Duration("elapsed", elapsed))
	}
	return res, err
}

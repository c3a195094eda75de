package strand

import "github.com/xraph/strand/reactor"

// SinkJob is the low-level seam a sink bridge implements. PollSink runs
// once per sweep with full access to the state, service, and context. A
// ready result becomes the context's terminal result, bypassing Call; an
// error terminates the context with that error; pending means no change.
type SinkJob[S, M, R any] interface {
	PollSink(state *S, srv Service[S, M, R], c *Context[S, M, R], w reactor.Waker) (Poll[R], error)
}

// Consumer is the outbound endpoint a sink bridge drains into. Accept
// takes one value, returning false when the consumer cannot take it yet
// (after arranging for w to fire); Flush pushes through anything the
// consumer has buffered, returning false while incomplete. Errors from
// either terminate the owning context.
type Consumer[T any] interface {
	Accept(v T, w reactor.Waker) (bool, error)
	Flush(w reactor.Waker) (bool, error)
}

// SinkHandle is the write side of a bridged sink. It is owned by the
// goroutine driving the context: Send and Close are not safe for
// concurrent use, though the wake they trigger is.
type SinkHandle[T any] struct {
	b sinkCore[T]
}

// Send queues v for delivery to the consumer on the next poll. It
// returns ErrSinkClosed after Close and ErrSinkDetached once the owning
// context has terminated.
func (h *SinkHandle[T]) Send(v T) error { return h.b.send(v) }

// Close marks the sink complete: once everything queued has been
// accepted and flushed, the sink service's Finished runs. Close is
// idempotent; it returns ErrSinkDetached once the owning context has
// terminated.
func (h *SinkHandle[T]) Close() error { return h.b.close() }

// sinkCore erases the bridge's service type parameters from the handle.
type sinkCore[T any] interface {
	send(v T) error
	close() error
}

// detachable is how a terminating context marks sink bridges dead.
type detachable interface {
	detachSink()
}

// AddSink bridges an outbound consumer into c as a sink job and returns
// the write handle. Values sent through the handle are queued in order
// and drained into cons one Accept at a time; after Close, once the
// queue is drained and the consumer reports a complete Flush, ss's
// Finished callback runs exactly once and its result follows the sink
// job contract. A nil ss leaves the bridge inert after the final flush.
//
// AddSink is a free function because the handle's element type is
// independent of the context's type parameters.
func AddSink[T, S, M, R any](c *Context[S, M, R], ss SinkService[S, M, R], cons Consumer[T]) *SinkHandle[T] {
	if cons == nil {
		panic("strand: nil consumer")
	}
	b := &sinkBridge[T, S, M, R]{c: c, ss: ss, cons: cons}
	c.AddSinkJob(b)
	return &SinkHandle[T]{b: b}
}

// sinkBridge adapts a Consumer into a SinkJob: a queue drained on each
// poll, flushed, and completed through the sink service.
type sinkBridge[T, S, M, R any] struct {
	c    *Context[S, M, R]
	ss   SinkService[S, M, R]
	cons Consumer[T]

	queue    []T
	closed   bool
	detached bool

	// finished is set after the sink service's Finished has run (or
	// would have, for a nil service); the bridge is inert from then on.
	finished bool
}

var _ SinkJob[struct{}, int, string] = (*sinkBridge[byte, struct{}, int, string])(nil)
var _ detachable = (*sinkBridge[byte, struct{}, int, string])(nil)

// PollSink implements SinkJob.
func (b *sinkBridge[T, S, M, R]) PollSink(state *S, _ Service[S, M, R], c *Context[S, M, R], w reactor.Waker) (Poll[R], error) {
	if b.finished {
		return Pending[R](), nil
	}

	for len(b.queue) > 0 {
		ok, err := b.cons.Accept(b.queue[0], w)
		if err != nil {
			return Pending[R](), err
		}
		if !ok {
			break
		}
		var zero T
		b.queue[0] = zero
		b.queue = b.queue[1:]
	}
	if len(b.queue) == 0 {
		b.queue = nil
	}

	// Flush runs every poll, even after a blocked Accept.
	flushed, err := b.cons.Flush(w)
	if err != nil {
		return Pending[R](), err
	}

	if b.closed && len(b.queue) == 0 && flushed {
		b.finished = true
		if b.ss == nil {
			c.Logger().Debug("sink drained with no sink service")
			return Pending[R](), nil
		}
		return b.ss.Finished(state, c)
	}
	return Pending[R](), nil
}

func (b *sinkBridge[T, S, M, R]) send(v T) error {
	switch {
	case b.detached:
		return ErrSinkDetached
	case b.closed:
		return ErrSinkClosed
	}
	b.queue = append(b.queue, v)
	b.wake()
	return nil
}

func (b *sinkBridge[T, S, M, R]) close() error {
	if b.detached {
		return ErrSinkDetached
	}
	if b.closed {
		return nil
	}
	b.closed = true
	b.wake()
	return nil
}

func (b *sinkBridge[T, S, M, R]) detachSink() {
	b.detached = true
	b.queue = nil
}

// wake requests a re-poll of the owning context. Before the first poll
// there is no waker yet; the pending first poll will drain the queue.
func (b *sinkBridge[T, S, M, R]) wake() {
	if w := b.c.waker; w != nil {
		w.Wake()
	}
}

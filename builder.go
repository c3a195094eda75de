package strand

import (
	"context"
	"log/slog"

	"github.com/xraph/strand/hook"
	"github.com/xraph/strand/id"
	"github.com/xraph/strand/reactor"
)

// Builder assembles a Context from one of three initialization styles:
// a ready service (New), a service constructed on first poll (Deferred),
// or a sibling sharing another context's state cell (FromContext). Jobs
// may be seeded before the first poll with the chainable Add methods.
//
// A builder is single use: exactly one of Build or Spawn may be called,
// once.
type Builder[S, M, R any] struct {
	handle  reactor.Handle
	srv     Service[S, M, R]
	factory func(*Context[S, M, R]) Service[S, M, R]
	cell    *Cell[S]
	primary Stream[M]
	opts    options
	seeded  []item[S, M, R]
	built   bool
}

// New starts a builder for a context with a ready service instance.
func New[S, M, R any](h reactor.Handle, srv Service[S, M, R], state S, primary Stream[M], opts ...Option) *Builder[S, M, R] {
	if srv == nil {
		panic("strand: nil service")
	}
	return newBuilder(h, srv, nil, NewCell(state), primary, options{}, opts)
}

// Deferred starts a builder whose service is constructed on the first
// poll: factory receives the fresh context with the registration API
// live, before Start runs. Use it when the service needs to register
// jobs referencing its own context during construction.
func Deferred[S, M, R any](h reactor.Handle, state S, primary Stream[M], factory func(*Context[S, M, R]) Service[S, M, R], opts ...Option) *Builder[S, M, R] {
	if factory == nil {
		panic("strand: nil service factory")
	}
	return newBuilder(h, nil, factory, NewCell(state), primary, options{}, opts)
}

// FromContext starts a builder for a sibling context sharing sib's state
// cell and reactor handle. The sibling inherits sib's logger and hooks
// unless opts override them; its message and result types are its own.
func FromContext[S, M, R, M2, R2 any](sib *Context[S, M2, R2], primary Stream[M], factory func(*Context[S, M, R]) Service[S, M, R], opts ...Option) *Builder[S, M, R] {
	if factory == nil {
		panic("strand: nil service factory")
	}
	inherited := options{
		logger: sib.baseLogger,
		hooks:  sib.hooks,
	}
	return newBuilder(sib.handle, nil, factory, sib.cell, primary, inherited, opts)
}

func newBuilder[S, M, R any](
	h reactor.Handle,
	srv Service[S, M, R],
	factory func(*Context[S, M, R]) Service[S, M, R],
	cell *Cell[S],
	primary Stream[M],
	defaults options,
	opts []Option,
) *Builder[S, M, R] {
	if primary == nil {
		panic("strand: nil primary stream")
	}
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder[S, M, R]{
		handle:  h,
		srv:     srv,
		factory: factory,
		cell:    cell,
		primary: primary,
		opts:    o,
	}
}

// AddFuture seeds a future job attached before the first poll.
func (b *Builder[S, M, R]) AddFuture(f Future[M]) *Builder[S, M, R] {
	if f == nil {
		panic("strand: nil future")
	}
	b.seeded = append(b.seeded, item[S, M, R]{kind: kindFuture, future: f})
	return b
}

// AddStream seeds a secondary stream job attached before the first poll.
func (b *Builder[S, M, R]) AddStream(s Stream[M]) *Builder[S, M, R] {
	if s == nil {
		panic("strand: nil stream")
	}
	b.seeded = append(b.seeded, item[S, M, R]{kind: kindStream, stream: s})
	return b
}

// AddDeferredStream seeds a deferred stream job attached before the
// first poll.
func (b *Builder[S, M, R]) AddDeferredStream(f Future[Stream[M]]) *Builder[S, M, R] {
	if f == nil {
		panic("strand: nil deferred stream")
	}
	b.seeded = append(b.seeded, item[S, M, R]{kind: kindDeferred, deferred: f})
	return b
}

// Build finalizes the context for manual polling.
func (b *Builder[S, M, R]) Build() *Context[S, M, R] {
	if b.built {
		panic("strand: builder already used")
	}
	b.built = true

	o := b.opts
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.hooks == nil {
		o.hooks = hook.NewRegistry(o.logger)
	}

	cid := id.NewContextID()
	logger := o.logger.With(slog.Any("context_id", cid))
	if o.name != "" {
		logger = logger.With(slog.String("context_name", o.name))
	}

	c := &Context[S, M, R]{
		id:         cid,
		name:       o.name,
		baseLogger: o.logger,
		logger:     logger,
		hooks:      o.hooks,
		handle:     b.handle,
		cell:       b.cell,
		srv:        b.srv,
		factory:    b.factory,
		primary:    b.primary,
	}
	for _, it := range b.seeded {
		c.items = append(c.items, it)
		c.hooks.EmitJobAdded(c.info(), it.kind.hookKind())
	}
	b.seeded = nil
	return c
}

// Spawn builds the context and schedules it detached on its reactor
// handle, returning the shared state cell. The terminal result is
// discarded; it stays observable through hooks and the context logger.
func (b *Builder[S, M, R]) Spawn() *Cell[S] {
	c := b.Build()
	cell := c.cell
	b.handle.Spawn(reactor.TaskFunc(func(w reactor.Waker) bool {
		p, err := c.Poll(w)
		return err != nil || p.IsReady()
	}))
	return cell
}

// Run builds b and drives core on the calling goroutine until the
// context produces its terminal result, which it returns. Run returns
// early with ctx.Err() if ctx is cancelled first, or with the reactor's
// error if the context panics mid-poll.
func Run[S, M, R any](ctx context.Context, core *reactor.Core, b *Builder[S, M, R]) (R, error) {
	c := b.Build()

	var (
		result    R
		resultErr error
	)
	err := core.Run(ctx, reactor.TaskFunc(func(w reactor.Waker) bool {
		p, perr := c.Poll(w)
		if perr != nil {
			resultErr = perr
			return true
		}
		if p.IsReady() {
			result = p.Value()
			return true
		}
		return false
	}))
	if err != nil {
		var zero R
		return zero, err
	}
	return result, resultErr
}

package strand

import "github.com/xraph/strand/reactor"

// Task is a one-shot job polled with exclusive access to the context's
// state and service. It resolves with a single value or fails with an
// error; either way it detaches from the context afterward.
//
// Registered through Context.AddTask, the resolved value or error is
// forwarded to the service's Call callback. Registered through
// Context.Spawn, both are discarded (fire-and-forget).
type Task[S, M, R any] interface {
	Poll(state *S, srv Service[S, M, R], c *Context[S, M, R], w reactor.Waker) (Poll[M], error)
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc[S, M, R any] func(state *S, srv Service[S, M, R], c *Context[S, M, R], w reactor.Waker) (Poll[M], error)

// Poll implements Task.
func (f TaskFunc[S, M, R]) Poll(state *S, srv Service[S, M, R], c *Context[S, M, R], w reactor.Waker) (Poll[M], error) {
	return f(state, srv, c, w)
}

package strand

// Service is the behavior contract a unit of logic implements. It owns no
// state of its own beyond its callback code; all three entry points
// operate on externally owned state passed in each invocation, plus the
// context granting access to the job registration API.
//
// Call and Finished share one return contract: (Pending, nil) keeps the
// context running; a ready value terminates the context with that result;
// a non-nil error terminates it with that error.
type Service[S, M, R any] interface {
	// Start is invoked exactly once, on the first poll, before any other
	// entry point. Side effects only — typically registering initial jobs.
	Start(state *S, c *Context[S, M, R])

	// Call is invoked once per value or propagated error from the primary
	// stream or from a job. Exactly one of msg and err is meaningful:
	// err == nil means msg is a produced value; otherwise msg is the zero
	// value and err is the propagated error.
	Call(state *S, c *Context[S, M, R], msg M, err error) (Poll[R], error)

	// Finished is invoked exactly once, when the primary stream is
	// exhausted. A service that returns (Pending, nil) here must have
	// outstanding jobs able to produce the terminal result, otherwise the
	// context never completes.
	Finished(state *S, c *Context[S, M, R]) (Poll[R], error)
}

// SinkService receives the completion notification of a bridged sink.
// Every Service satisfies it; a sink may also be given a standalone
// implementation, or a nil one to leave the bridge inert on completion.
type SinkService[S, M, R any] interface {
	Finished(state *S, c *Context[S, M, R]) (Poll[R], error)
}

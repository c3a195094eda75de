// Package hook defines the lifecycle hook system for Strand.
//
// Hooks are notified of context lifecycle events: a context starting,
// a message reaching the service, jobs attaching and finishing, the
// terminal result. Implementations react by recording metrics, emitting
// traces, or writing log lines. Each lifecycle event is a separate
// interface so hooks opt in only to the events they care about.
//
// Hooks fire synchronously on the goroutine polling the context, so
// they receive no context.Context and must return quickly. A hook that
// returns an error has the error logged; it is never propagated and
// never affects the context being observed.
//
// # Implementing a Hook
//
//	type countHook struct{ delivered atomic.Int64 }
//
//	func (h *countHook) Name() string { return "count" }
//
//	// Opt in to specific events by implementing their interfaces.
//	func (h *countHook) OnMessageDelivered(c hook.Info, src hook.JobKind, err error) error {
//	    h.delivered.Add(1)
//	    return nil
//	}
//
// # Lifecycle Events
//
//   - [ContextStarted] — the service's Start callback has run
//   - [ContextFinished] — the context produced its terminal result
//   - [MessageDelivered] — a message reached the service's Call callback
//   - [JobAdded] — a secondary job attached to the context
//   - [JobFinished] — a secondary job completed or was upgraded
//   - [SpawnedError] — a spawned task failed (the error is otherwise dropped)
//   - [PollCompleted] — one full poll pass over the context finished
package hook

// Package future provides ready-made sources and combinators for the
// strand.Future interface.
//
// Ready, Fail and Never cover the fixed cases. Go runs a blocking
// function on its own goroutine and resolves with its result;
// FromChannel and After do the same for a channel receive and a timer.
// Retry re-makes a future across failed attempts with backoff delays.
//
// A strand.Context is itself a Future of its result type, so Map also
// serves to nest one context inside another as a plain job:
//
//	parent.AddFuture(future.Map(child, func(r childResult) parentMsg {
//		return parentMsg{child: r}
//	}))
//
// The child is driven to completion by the parent's polls and its
// result arrives through the parent's Call callback like any other
// future value. Nest only contexts with their own state; siblings
// sharing a cell would alias the checked-out state.
package future

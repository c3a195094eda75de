// Package reactor provides the single-threaded executor that drives
// Strand services.
//
// A Core owns a FIFO run queue of tasks and drains it on the goroutine
// that calls Run. Each task is polled once per wake; a task that cannot
// make progress returns false from Poll and is left alone until its
// Waker fires. Duplicate wakes between polls coalesce into a single
// requeue.
//
// # Quick Start
//
//	core := reactor.NewCore()
//
//	err := core.Run(ctx, reactor.TaskFunc(func(w reactor.Waker) bool {
//		// Poll sub-work, hand w to whatever should resume us.
//		return workRemaining == 0
//	}))
//
// Run returns when the main task completes, the context is cancelled, or
// the main task panics. Detached tasks spawned through a Handle are
// polled on the same goroutine and outlive the task that spawned them;
// their completion values are discarded, and tasks still queued when Run
// returns are held for the next Run.
//
// # Threading Model
//
// Everything a Core polls runs on the single Run goroutine, so polled
// code can share state without locks. The only entry points that are
// safe from other goroutines are Handle.Spawn and Waker.Wake.
package reactor

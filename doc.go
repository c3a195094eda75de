// Package strand provides an in-process execution engine for services:
// stateful units of behavior driven by a primary asynchronous stream plus
// dynamically attached secondary jobs, all advanced by one cooperative
// poll loop on a single-threaded reactor.
//
// Strand is designed as a library, not a framework. A service is three
// callbacks over externally owned state. Everything else (background
// tasks, auxiliary streams, deferred streams, outbound sinks) attaches
// to a running context through its registration API and is driven by the
// same loop.
//
// # Quick Start
//
//	core := reactor.NewCore()
//	b := strand.New[batchState, int, []int](core.Handle(), batcher{}, batchState{}, stream.Of(1, 2, 3))
//	result, err := strand.Run(ctx, core, b)
//
// The explicit type arguments name the shared state, the message type,
// and the result type. They are required when the service argument is a
// concrete type, since Go does not infer type parameters from interface
// satisfaction.
//
// # Architecture
//
// A Context owns the service, the shared state cell, the primary stream,
// and a compacting collection of secondary jobs. Each poll sweeps the
// primary stream and every job, forwards produced values and errors into
// the service's Call callback, and keeps sweeping until a pass makes no
// progress. The moment a callback (or a sink job) produces a definitive
// result the context terminates, abandoning the primary stream and every
// outstanding job.
//
// Everything runs on one goroutine. The shared state cell enforces that
// with a checked single-writer discipline: checking out state that is
// already checked out panics instead of aliasing silently.
//
// Context IDs are TypeIDs, type-prefixed K-sortable identifiers built
// on UUIDv7.
package strand

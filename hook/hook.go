package hook

import (
	"time"

	"github.com/xraph/strand/id"
)

// Hook is the base interface all hooks must implement.
type Hook interface {
	// Name returns a unique human-readable name for the hook.
	Name() string
}

// Info identifies the context an event belongs to.
type Info struct {
	ID   id.ContextID
	Name string
}

// JobKind classifies the source of a lifecycle event within a context.
type JobKind string

const (
	// KindPrimary is the context's own message stream, not a secondary
	// job. It appears only as a message source.
	KindPrimary JobKind = "primary"

	KindTask     JobKind = "task"
	KindSpawned  JobKind = "spawned"
	KindFuture   JobKind = "future"
	KindStream   JobKind = "stream"
	KindDeferred JobKind = "deferred"
	KindSink     JobKind = "sink"
)

// ──────────────────────────────────────────────────
// Context lifecycle hooks
// ──────────────────────────────────────────────────

// ContextStarted is called once per context, after the service's Start
// callback has run and before anything is polled.
type ContextStarted interface {
	OnContextStarted(c Info) error
}

// ContextFinished is called when a context produces its terminal result.
// err is nil for a value outcome and non-nil for a failure outcome.
type ContextFinished interface {
	OnContextFinished(c Info, err error, elapsed time.Duration) error
}

// MessageDelivered is called after a message reaches the service's Call
// callback. src names the producing job kind, KindPrimary for the
// context's own stream; err is non-nil when a failure was delivered in
// place of a value.
type MessageDelivered interface {
	OnMessageDelivered(c Info, src JobKind, err error) error
}

// ──────────────────────────────────────────────────
// Job lifecycle hooks
// ──────────────────────────────────────────────────

// JobAdded is called when a secondary job attaches to a context.
type JobAdded interface {
	OnJobAdded(c Info, kind JobKind) error
}

// JobFinished is called when a secondary job detaches: it completed,
// failed, or (for a deferred stream) was upgraded to another kind.
type JobFinished interface {
	OnJobFinished(c Info, kind JobKind) error
}

// SpawnedError is called when a spawned task fails. The error never
// reaches the service, so this hook is the only place it surfaces.
type SpawnedError interface {
	OnSpawnedError(c Info, err error) error
}

// ──────────────────────────────────────────────────
// Poll hooks
// ──────────────────────────────────────────────────

// PollCompleted is called after each full poll pass over a context.
type PollCompleted interface {
	OnPollCompleted(c Info, elapsed time.Duration) error
}

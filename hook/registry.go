package hook

import (
	"log/slog"
	"time"
)

// Named entry types pair a hook implementation with the hook name
// captured at registration time. This avoids type-asserting back to
// Hook inside the emit methods.
type contextStartedEntry struct {
	name string
	hook ContextStarted
}

type contextFinishedEntry struct {
	name string
	hook ContextFinished
}

type messageDeliveredEntry struct {
	name string
	hook MessageDelivered
}

type jobAddedEntry struct {
	name string
	hook JobAdded
}

type jobFinishedEntry struct {
	name string
	hook JobFinished
}

type spawnedErrorEntry struct {
	name string
	hook SpawnedError
}

type pollCompletedEntry struct {
	name string
	hook PollCompleted
}

// Registry holds registered hooks and dispatches lifecycle events to
// them. It type-caches hooks at registration time so emit calls iterate
// only over hooks that implement the relevant event.
type Registry struct {
	hooks  []Hook
	logger *slog.Logger

	// Type-cached slices for each lifecycle event.
	contextStarted   []contextStartedEntry
	contextFinished  []contextFinishedEntry
	messageDelivered []messageDeliveredEntry
	jobAdded         []jobAddedEntry
	jobFinished      []jobFinishedEntry
	spawnedError     []spawnedErrorEntry
	pollCompleted    []pollCompletedEntry
}

// NewRegistry creates a hook registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a hook and type-asserts it into all applicable event
// caches. Hooks are notified in registration order.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)
	name := h.Name()

	if e, ok := h.(ContextStarted); ok {
		r.contextStarted = append(r.contextStarted, contextStartedEntry{name, e})
	}
	if e, ok := h.(ContextFinished); ok {
		r.contextFinished = append(r.contextFinished, contextFinishedEntry{name, e})
	}
	if e, ok := h.(MessageDelivered); ok {
		r.messageDelivered = append(r.messageDelivered, messageDeliveredEntry{name, e})
	}
	if e, ok := h.(JobAdded); ok {
		r.jobAdded = append(r.jobAdded, jobAddedEntry{name, e})
	}
	if e, ok := h.(JobFinished); ok {
		r.jobFinished = append(r.jobFinished, jobFinishedEntry{name, e})
	}
	if e, ok := h.(SpawnedError); ok {
		r.spawnedError = append(r.spawnedError, spawnedErrorEntry{name, e})
	}
	if e, ok := h.(PollCompleted); ok {
		r.pollCompleted = append(r.pollCompleted, pollCompletedEntry{name, e})
	}
}

// Hooks returns all registered hooks.
func (r *Registry) Hooks() []Hook { return r.hooks }

// ──────────────────────────────────────────────────
// Context event emitters
// ──────────────────────────────────────────────────

// EmitContextStarted notifies all hooks that implement ContextStarted.
func (r *Registry) EmitContextStarted(c Info) {
	for _, e := range r.contextStarted {
		if err := e.hook.OnContextStarted(c); err != nil {
			r.logHookError("OnContextStarted", e.name, err)
		}
	}
}

// EmitContextFinished notifies all hooks that implement ContextFinished.
func (r *Registry) EmitContextFinished(c Info, resultErr error, elapsed time.Duration) {
	for _, e := range r.contextFinished {
		if err := e.hook.OnContextFinished(c, resultErr, elapsed); err != nil {
			r.logHookError("OnContextFinished", e.name, err)
		}
	}
}

// EmitMessageDelivered notifies all hooks that implement MessageDelivered.
func (r *Registry) EmitMessageDelivered(c Info, src JobKind, msgErr error) {
	for _, e := range r.messageDelivered {
		if err := e.hook.OnMessageDelivered(c, src, msgErr); err != nil {
			r.logHookError("OnMessageDelivered", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Job event emitters
// ──────────────────────────────────────────────────

// EmitJobAdded notifies all hooks that implement JobAdded.
func (r *Registry) EmitJobAdded(c Info, kind JobKind) {
	for _, e := range r.jobAdded {
		if err := e.hook.OnJobAdded(c, kind); err != nil {
			r.logHookError("OnJobAdded", e.name, err)
		}
	}
}

// EmitJobFinished notifies all hooks that implement JobFinished.
func (r *Registry) EmitJobFinished(c Info, kind JobKind) {
	for _, e := range r.jobFinished {
		if err := e.hook.OnJobFinished(c, kind); err != nil {
			r.logHookError("OnJobFinished", e.name, err)
		}
	}
}

// EmitSpawnedError notifies all hooks that implement SpawnedError.
func (r *Registry) EmitSpawnedError(c Info, taskErr error) {
	for _, e := range r.spawnedError {
		if err := e.hook.OnSpawnedError(c, taskErr); err != nil {
			r.logHookError("OnSpawnedError", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Poll event emitters
// ──────────────────────────────────────────────────

// EmitPollCompleted notifies all hooks that implement PollCompleted.
func (r *Registry) EmitPollCompleted(c Info, elapsed time.Duration) {
	for _, e := range r.pollCompleted {
		if err := e.hook.OnPollCompleted(c, elapsed); err != nil {
			r.logHookError("OnPollCompleted", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not disturb the
// context being observed.
func (r *Registry) logHookError(event, hookName string, err error) {
	r.logger.Warn("hook error",
		slog.String("event", event),
		slog.String("hook", hookName),
		slog.String("error", err.Error()),
	)
}

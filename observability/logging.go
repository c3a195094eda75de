package observability

import (
	"log/slog"
	"time"

	"github.com/xraph/strand/hook"
)

// Compile-time interface checks.
var (
	_ hook.Hook             = (*LoggingHook)(nil)
	_ hook.ContextStarted   = (*LoggingHook)(nil)
	_ hook.ContextFinished  = (*LoggingHook)(nil)
	_ hook.MessageDelivered = (*LoggingHook)(nil)
	_ hook.JobAdded         = (*LoggingHook)(nil)
	_ hook.JobFinished      = (*LoggingHook)(nil)
	_ hook.SpawnedError     = (*LoggingHook)(nil)
)

// LoggingHook writes one structured log line per lifecycle event.
// Context starts and clean finishes log at Info, failures and discarded
// spawned errors at Warn, per-message and per-job events at Debug.
// Poll completions are not logged; use [MetricsHook] for poll timing.
type LoggingHook struct {
	logger *slog.Logger
}

// Logging returns a hook that logs lifecycle events through l.
// A nil l uses slog.Default().
func Logging(l *slog.Logger) *LoggingHook {
	if l == nil {
		l = slog.Default()
	}
	return &LoggingHook{logger: l}
}

// Name implements hook.Hook.
func (h *LoggingHook) Name() string { return "observability-logging" }

// OnContextStarted implements hook.ContextStarted.
func (h *LoggingHook) OnContextStarted(c hook.Info) error {
	h.logger.Info("context started",
		slog.String("context_id", c.ID.String()),
		slog.String("context_name", c.Name),
	)
	return nil
}

// OnContextFinished implements hook.ContextFinished.
func (h *LoggingHook) OnContextFinished(c hook.Info, err error, elapsed time.Duration) error {
	if err != nil {
		h.logger.Warn("context failed",
			slog.String("context_id", c.ID.String()),
			slog.String("context_name", c.Name),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return nil
	}
	h.logger.Info("context finished",
		slog.String("context_id", c.ID.String()),
		slog.String("context_name", c.Name),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

// OnMessageDelivered implements hook.MessageDelivered.
func (h *LoggingHook) OnMessageDelivered(c hook.Info, src hook.JobKind, err error) error {
	if err != nil {
		h.logger.Debug("message delivered",
			slog.String("context_id", c.ID.String()),
			slog.String("source", string(src)),
			slog.String("error", err.Error()),
		)
		return nil
	}
	h.logger.Debug("message delivered",
		slog.String("context_id", c.ID.String()),
		slog.String("source", string(src)),
	)
	return nil
}

// OnJobAdded implements hook.JobAdded.
func (h *LoggingHook) OnJobAdded(c hook.Info, kind hook.JobKind) error {
	h.logger.Debug("job added",
		slog.String("context_id", c.ID.String()),
		slog.String("kind", string(kind)),
	)
	return nil
}

// OnJobFinished implements hook.JobFinished.
func (h *LoggingHook) OnJobFinished(c hook.Info, kind hook.JobKind) error {
	h.logger.Debug("job finished",
		slog.String("context_id", c.ID.String()),
		slog.String("kind", string(kind)),
	)
	return nil
}

// OnSpawnedError implements hook.SpawnedError.
func (h *LoggingHook) OnSpawnedError(c hook.Info, err error) error {
	h.logger.Warn("spawned task failed",
		slog.String("context_id", c.ID.String()),
		slog.String("context_name", c.Name),
		slog.String("error", err.Error()),
	)
	return nil
}

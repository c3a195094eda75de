package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/strand/hook"
)

// meterName is the instrumentation scope name for strand metrics.
const meterName = "github.com/xraph/strand"

// Compile-time interface checks.
var (
	_ hook.Hook             = (*MetricsHook)(nil)
	_ hook.ContextStarted   = (*MetricsHook)(nil)
	_ hook.ContextFinished  = (*MetricsHook)(nil)
	_ hook.MessageDelivered = (*MetricsHook)(nil)
	_ hook.JobAdded         = (*MetricsHook)(nil)
	_ hook.JobFinished      = (*MetricsHook)(nil)
	_ hook.SpawnedError     = (*MetricsHook)(nil)
	_ hook.PollCompleted    = (*MetricsHook)(nil)
)

// MetricsHook records engine lifecycle metrics through OpenTelemetry.
// Context IDs are never used as attributes; name contexts with
// strand.WithName to get per-context series.
type MetricsHook struct {
	contextsActive metric.Int64UpDownCounter
	contextDur     metric.Float64Histogram
	pollDur        metric.Float64Histogram
	delivered      metric.Int64Counter
	jobsActive     metric.Int64UpDownCounter
	spawnedErrs    metric.Int64Counter

	// live tracks attached jobs per context so the active-jobs counter
	// can be settled when a terminal result drops jobs without
	// individual finish events.
	mu   sync.Mutex
	live map[string]map[hook.JobKind]int64
}

// Metrics returns a hook that records engine metrics using the global
// OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and the hook becomes a pass-through.
//
// Instruments:
//   - strand.contexts.active (Int64UpDownCounter): running contexts
//   - strand.context.duration (Float64Histogram): context lifetime in
//     seconds, with attributes: context_name, status ("ok" or "error")
//   - strand.context.poll.duration (Float64Histogram): poll pass time in
//     seconds, with attributes: context_name
//   - strand.messages.delivered (Int64Counter): service deliveries,
//     with attributes: context_name, source, status ("ok" or "error")
//   - strand.jobs.active (Int64UpDownCounter): attached secondary jobs,
//     with attributes: kind
//   - strand.spawned.errors (Int64Counter): discarded spawned task
//     failures, with attributes: context_name
func Metrics() *MetricsHook {
	return MetricsWithMeter(otel.Meter(meterName))
}

// MetricsWithMeter returns a metrics hook using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) *MetricsHook {
	h := &MetricsHook{live: make(map[string]map[hook.JobKind]int64)}

	// On error the OTel API returns noop instruments, so failures here
	// degrade to pass-through recording.
	h.contextsActive, _ = meter.Int64UpDownCounter(
		"strand.contexts.active",
		metric.WithDescription("Number of running contexts"),
		metric.WithUnit("{context}"),
	)
	h.contextDur, _ = meter.Float64Histogram(
		"strand.context.duration",
		metric.WithDescription("Context lifetime from first poll to terminal result in seconds"),
		metric.WithUnit("s"),
	)
	h.pollDur, _ = meter.Float64Histogram(
		"strand.context.poll.duration",
		metric.WithDescription("Duration of a single context poll pass in seconds"),
		metric.WithUnit("s"),
	)
	h.delivered, _ = meter.Int64Counter(
		"strand.messages.delivered",
		metric.WithDescription("Total messages delivered to service callbacks"),
		metric.WithUnit("{message}"),
	)
	h.jobsActive, _ = meter.Int64UpDownCounter(
		"strand.jobs.active",
		metric.WithDescription("Number of secondary jobs currently attached"),
		metric.WithUnit("{job}"),
	)
	h.spawnedErrs, _ = meter.Int64Counter(
		"strand.spawned.errors",
		metric.WithDescription("Total spawned task failures discarded by the engine"),
		metric.WithUnit("{error}"),
	)
	return h
}

// Name implements hook.Hook.
func (h *MetricsHook) Name() string { return "observability-metrics" }

// OnContextStarted implements hook.ContextStarted.
func (h *MetricsHook) OnContextStarted(_ hook.Info) error {
	h.contextsActive.Add(context.Background(), 1)
	return nil
}

// OnContextFinished implements hook.ContextFinished.
func (h *MetricsHook) OnContextFinished(c hook.Info, err error, elapsed time.Duration) error {
	ctx := context.Background()
	h.contextsActive.Add(ctx, -1)
	h.contextDur.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("context_name", c.Name),
		attribute.String("status", status(err)),
	))

	h.mu.Lock()
	counts := h.live[c.ID.String()]
	delete(h.live, c.ID.String())
	h.mu.Unlock()

	// Jobs still attached at termination were dropped wholesale.
	for kind, n := range counts {
		if n != 0 {
			h.jobsActive.Add(ctx, -n, metric.WithAttributes(
				attribute.String("kind", string(kind)),
			))
		}
	}
	return nil
}

// OnMessageDelivered implements hook.MessageDelivered.
func (h *MetricsHook) OnMessageDelivered(c hook.Info, src hook.JobKind, err error) error {
	h.delivered.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("context_name", c.Name),
		attribute.String("source", string(src)),
		attribute.String("status", status(err)),
	))
	return nil
}

// OnJobAdded implements hook.JobAdded.
func (h *MetricsHook) OnJobAdded(c hook.Info, kind hook.JobKind) error {
	h.jobsActive.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
	))

	h.mu.Lock()
	m := h.live[c.ID.String()]
	if m == nil {
		m = make(map[hook.JobKind]int64)
		h.live[c.ID.String()] = m
	}
	m[kind]++
	h.mu.Unlock()
	return nil
}

// OnJobFinished implements hook.JobFinished.
func (h *MetricsHook) OnJobFinished(c hook.Info, kind hook.JobKind) error {
	h.jobsActive.Add(context.Background(), -1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
	))

	h.mu.Lock()
	if m := h.live[c.ID.String()]; m != nil {
		m[kind]--
	}
	h.mu.Unlock()
	return nil
}

// OnSpawnedError implements hook.SpawnedError.
func (h *MetricsHook) OnSpawnedError(c hook.Info, _ error) error {
	h.spawnedErrs.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("context_name", c.Name),
	))
	return nil
}

// OnPollCompleted implements hook.PollCompleted.
func (h *MetricsHook) OnPollCompleted(c hook.Info, elapsed time.Duration) error {
	h.pollDur.Record(context.Background(), elapsed.Seconds(), metric.WithAttributes(
		attribute.String("context_name", c.Name),
	))
	return nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

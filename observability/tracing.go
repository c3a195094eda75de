package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/strand/hook"
)

// tracerName is the instrumentation scope name for strand tracing.
const tracerName = "github.com/xraph/strand"

// Compile-time interface checks.
var (
	_ hook.Hook            = (*TracingHook)(nil)
	_ hook.ContextStarted  = (*TracingHook)(nil)
	_ hook.ContextFinished = (*TracingHook)(nil)
	_ hook.SpawnedError    = (*TracingHook)(nil)
)

// TracingHook wraps every context run in one OpenTelemetry span, opened
// at the first poll and closed at the terminal result. Spawned task
// failures are recorded as events on the running span.
//
// The hook holds one live span per running context and releases it at
// the terminal result. A context that is polled but abandoned before
// completing never emits a finish, so its span stays open and its
// entry is retained for the hook's lifetime.
type TracingHook struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

// Tracing returns a tracing hook using the global OTel TracerProvider.
// If no TracerProvider is configured, the default noop tracer is used
// and the hook becomes a pass-through with zero overhead.
//
// Span attributes include: strand.context.id, strand.context.name.
// On error, the span status is set to codes.Error with the error
// message.
func Tracing() *TracingHook {
	return TracingWithTracer(otel.Tracer(tracerName))
}

// TracingWithTracer returns a tracing hook using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing
// or when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) *TracingHook {
	return &TracingHook{
		tracer: tracer,
		spans:  make(map[string]trace.Span),
	}
}

// Name implements hook.Hook.
func (h *TracingHook) Name() string { return "observability-tracing" }

// OnContextStarted implements hook.ContextStarted.
func (h *TracingHook) OnContextStarted(c hook.Info) error {
	_, span := h.tracer.Start(context.Background(), "strand.context.run",
		trace.WithAttributes(
			attribute.String("strand.context.id", c.ID.String()),
			attribute.String("strand.context.name", c.Name),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	h.mu.Lock()
	h.spans[c.ID.String()] = span
	h.mu.Unlock()
	return nil
}

// OnContextFinished implements hook.ContextFinished.
func (h *TracingHook) OnContextFinished(c hook.Info, err error, _ time.Duration) error {
	h.mu.Lock()
	span, ok := h.spans[c.ID.String()]
	delete(h.spans, c.ID.String())
	h.mu.Unlock()
	if !ok {
		return nil
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	return nil
}

// OnSpawnedError implements hook.SpawnedError.
func (h *TracingHook) OnSpawnedError(c hook.Info, err error) error {
	h.mu.Lock()
	span, ok := h.spans[c.ID.String()]
	h.mu.Unlock()
	if ok {
		span.RecordError(err)
	}
	return nil
}

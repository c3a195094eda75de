// Package observability provides hooks that bridge strand lifecycle
// events to structured logs, OpenTelemetry metrics, and OpenTelemetry
// traces.
//
// Each hook attaches through the ordinary registry:
//
//	reg := hook.NewRegistry(logger)
//	reg.Register(observability.Logging(logger))
//	reg.Register(observability.Metrics())
//	reg.Register(observability.Tracing())
//
// Metrics and Tracing use the global OTel providers by default and
// degrade to noop instruments when none are configured.
package observability

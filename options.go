package strand

import (
	"log/slog"

	"github.com/xraph/strand/hook"
)

// options collects per-context configuration applied at build time.
type options struct {
	logger *slog.Logger
	hooks  *hook.Registry
	name   string
}

// Option configures a context under construction.
type Option func(*options)

// WithLogger sets the base logger for the context. The context derives a
// child logger carrying its ID and name. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHooks sets the hook registry notified of the context's lifecycle
// events. Defaults to an empty registry.
func WithHooks(r *hook.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.hooks = r
		}
	}
}

// WithName sets a human-readable name for the context, carried in logs,
// hook notifications, and telemetry attributes.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

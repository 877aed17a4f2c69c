package container

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option configures a Container at construction time.
type Option func(*registry)

// WithIntrospector sets the type-introspection capability used to build
// concrete types by name. Without one, only factories and instances can
// be resolved.
func WithIntrospector(i Introspector) Option {
	return func(r *registry) {
		if i != nil {
			r.introspector = i
		}
	}
}

// WithLogger routes container debug logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(r *registry) {
		if l != nil {
			r.logger = l.Named("container")
		}
	}
}

// WithTracer records a span per resolution.
func WithTracer(t trace.Tracer) Option {
	return func(r *registry) {
		if t != nil {
			r.tracer = t
		}
	}
}

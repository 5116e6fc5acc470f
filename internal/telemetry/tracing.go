package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for build spans.
const defaultTracerName = "pagebake"

// Tracer starts one span per build phase.
type Tracer struct {
	tracer trace.Tracer
}

// TracerOption configures a Tracer.
type TracerOption func(*tracerConfig)

type tracerConfig struct {
	name     string
	provider trace.TracerProvider
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *tracerConfig) {
		c.name = name
	}
}

// WithTracerProvider uses provider instead of the global one.
func WithTracerProvider(provider trace.TracerProvider) TracerOption {
	return func(c *tracerConfig) {
		c.provider = provider
	}
}

// NewTracer resolves a tracer from the configured provider.
func NewTracer(opts ...TracerOption) *Tracer {
	config := tracerConfig{name: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.provider == nil {
		return &Tracer{tracer: otel.Tracer(config.name)}
	}
	return &Tracer{tracer: config.provider.Tracer(config.name)}
}

// Start opens a span named "pagebake.<phase>".
func (t *Tracer) Start(ctx context.Context, phase string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pagebake."+phase,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span, sets its status and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

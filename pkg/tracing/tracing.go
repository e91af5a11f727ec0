// Package tracing wraps the three suspension points worth observing in a
// session — connect, driver.Next, and schema bind — with OpenTelemetry
// spans, using a tracer-and-functional-options shape applied directly at
// call sites rather than through router middleware, since this client has
// no router.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is the tracer name used unless WithTracerName overrides it.
const defaultTracerName = "simlink"

// Config configures the package's tracer.
type Config struct {
	TracerName string
}

// Option configures a Config.
type Option func(*Config)

// WithTracerName overrides the tracer name (default: "simlink").
func WithTracerName(name string) Option {
	return func(c *Config) { c.TracerName = name }
}

// Tracer wraps the suspension points a session cares about.
type Tracer struct {
	tracer trace.Tracer
}

// New constructs a Tracer against the global otel TracerProvider.
func New(opts ...Option) *Tracer {
	cfg := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tracer{tracer: otel.Tracer(cfg.TracerName)}
}

// Connect wraps a dial attempt in a "connect" span, recording the brain URL
// and the outcome.
func (t *Tracer) Connect(ctx context.Context, brainURL string, fn func(context.Context) error) error {
	ctx, span := t.tracer.Start(ctx, "connect", trace.WithAttributes(
		attribute.String("simlink.brain_url", brainURL),
	))
	defer span.End()

	err := fn(ctx)
	recordOutcome(span, err)
	return err
}

// DriverNext wraps a single driver.Next invocation in a "driver.next" span,
// recording the state the driver was in before the call.
func (t *Tracer) DriverNext(ctx context.Context, state string, fn func(context.Context) error) error {
	ctx, span := t.tracer.Start(ctx, "driver.next", trace.WithAttributes(
		attribute.String("simlink.driver_state", state),
	))
	defer span.End()

	err := fn(ctx)
	recordOutcome(span, err)
	return err
}

// SchemaBind wraps a schema.Binder.Bind call in a "schema.bind" span,
// recording the descriptor name being bound.
func (t *Tracer) SchemaBind(ctx context.Context, descriptorName string, fn func(context.Context) error) error {
	ctx, span := t.tracer.Start(ctx, "schema.bind", trace.WithAttributes(
		attribute.String("simlink.descriptor_name", descriptorName),
	))
	defer span.End()

	err := fn(ctx)
	recordOutcome(span, err)
	return err
}

func recordOutcome(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

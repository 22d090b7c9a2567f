// Package trace installs the OpenTelemetry tracer provider.
//
// Tracing is off unless an OTLP endpoint or an exporter is configured. In
// that case spans from every package are batched to the exporter until
// the returned shutdown function is called.
package trace

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName identifies cleave in exported spans.
const ServiceName = "cleave"

// ShutdownFunc flushes pending spans and stops the provider.
type ShutdownFunc func(context.Context) error

// Option configures [Setup].
type Option func(*options)

type options struct {
	exporter sdktrace.SpanExporter
	endpoint string
	version  string
	insecure bool
}

// WithEndpoint exports spans over OTLP gRPC to endpoint (host:port).
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithInsecure disables TLS for the OTLP connection.
func WithInsecure(insecure bool) Option {
	return func(o *options) {
		o.insecure = insecure
	}
}

// WithExporter sends spans to exp instead of an OTLP endpoint.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.exporter = exp
	}
}

// WithServiceVersion records the running version on the trace resource.
func WithServiceVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// Setup installs a global tracer provider and propagator. When neither an
// endpoint nor an exporter is given it installs nothing and the returned
// function does nothing.
func Setup(ctx context.Context, opts ...Option) (ShutdownFunc, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	exp := o.exporter
	if exp == nil {
		if o.endpoint == "" {
			return func(context.Context) error { return nil }, nil
		}

		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(o.endpoint)}
		if o.insecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}

		var err error

		exp, err = otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", ServiceName)}
	if o.version != "" {
		attrs = append(attrs, attribute.String("service.version", o.version))
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return errors.Join(provider.ForceFlush(ctx), provider.Shutdown(ctx))
	}, nil
}

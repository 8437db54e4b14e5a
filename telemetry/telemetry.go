/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package telemetry instruments container operations (attach, steal,
// shrink, compress, decompress) with OpenTelemetry spans exported to
// Jaeger, wired to cmd/cvec's --jaeger-endpoint flag.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "cvec"
	serviceVersion = "0.1.0"
)

var tracerProvider *tracesdk.TracerProvider

// InitTracing starts a Jaeger-backed OpenTelemetry tracer provider and
// registers it as the global provider. An empty endpoint uses the
// default local collector address.
func InitTracing(jaegerEndpoint string) error {
	if jaegerEndpoint == "" {
		jaegerEndpoint = "http://localhost:14268/api/traces"
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))

	if err != nil {
		return fmt.Errorf("telemetry: create jaeger exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)

	if err != nil {
		return fmt.Errorf("telemetry: build resource: %w", err)
	}

	tracerProvider = tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
	)

	otel.SetTracerProvider(tracerProvider)
	return nil
}

// Shutdown flushes and stops the tracer provider. A no-op if InitTracing
// was never called.
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}

	return tracerProvider.Shutdown(ctx)
}

// GetTracer returns a tracer scoped to component, e.g. "store.pool".
func GetTracer(component string) trace.Tracer {
	return otel.Tracer(fmt.Sprintf("%s/%s", serviceName, component))
}

// StartSpan starts a span named by operation (attach, steal, shrink,
// compress, decompress) tagged with a bucket index attribute.
func StartSpan(ctx context.Context, tracer trace.Tracer, operation string, bucket int) (context.Context, trace.Span) {
	return tracer.Start(ctx, operation, trace.WithAttributes(attribute.Int("cvec.bucket", bucket)))
}

// RecordError records err on the span currently active in ctx, if any.
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)

	if span.IsRecording() {
		span.RecordError(err)
	}
}

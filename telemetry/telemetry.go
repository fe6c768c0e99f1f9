// Copyright © 2024 The vuehelper authors

// Package telemetry installs the OpenTelemetry tracer provider. Finished
// spans are written to a zap logger at debug level so a server started with
// --debug shows request timings next to its other logs.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"
)

// ServiceName identifies spans recorded by this process.
const ServiceName = "vuehelper"

type zapExporter struct {
	logger *zap.Logger
}

var _ sdktrace.SpanExporter = (*zapExporter)(nil)

// NewZapExporter returns a span exporter that logs each span.
func NewZapExporter(logger *zap.Logger) sdktrace.SpanExporter {
	return &zapExporter{logger: logger}
}

func (e *zapExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := []zap.Field{
			zap.String("span", span.Name()),
			zap.Duration("duration", span.EndTime().Sub(span.StartTime())),
			zap.Stringer("trace_id", span.SpanContext().TraceID()),
		}
		for _, kv := range span.Attributes() {
			fields = append(fields, attrField(kv))
		}
		if status := span.Status(); status.Description != "" {
			fields = append(fields, zap.String("status", status.Description))
		}
		e.logger.Debug("span", fields...)
	}
	return nil
}

func (e *zapExporter) Shutdown(context.Context) error { return nil }

func attrField(kv attribute.KeyValue) zap.Field {
	key := string(kv.Key)
	switch kv.Value.Type() {
	case attribute.BOOL:
		return zap.Bool(key, kv.Value.AsBool())
	case attribute.INT64:
		return zap.Int64(key, kv.Value.AsInt64())
	case attribute.FLOAT64:
		return zap.Float64(key, kv.Value.AsFloat64())
	case attribute.STRING:
		return zap.String(key, kv.Value.AsString())
	default:
		return zap.String(key, kv.Value.Emit())
	}
}

// Setup installs a global tracer provider that exports to logger and
// returns its shutdown function. Spans are exported synchronously when they
// end.
func Setup(logger *zap.Logger) (func(context.Context) error, error) {
	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewSchemaless(semconv.ServiceName(ServiceName)),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(NewZapExporter(logger)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

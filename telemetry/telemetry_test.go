// Copyright © 2024 The vuehelper authors

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapExporter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewZapExporter(zap.New(core))))
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()), "TracerProvider shutdown")
	})

	_, span := tp.Tracer("test").Start(context.Background(), "complete.Complete")
	span.SetAttributes(
		attribute.String("complete.kind", "tag"),
		attribute.Int("complete.count", 3),
		attribute.Bool("complete.gated", false),
		attribute.StringSlice("list", []string{"a", "b"}),
	)
	span.SetStatus(codes.Error, "cancelled")
	span.End()

	entries := logs.FilterMessage("span").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "complete.Complete", fields["span"])
	assert.Equal(t, "tag", fields["complete.kind"])
	assert.Equal(t, int64(3), fields["complete.count"])
	assert.Equal(t, false, fields["complete.gated"])
	assert.Equal(t, `["a","b"]`, fields["list"])
	assert.Equal(t, "cancelled", fields["status"])
	assert.Contains(t, fields, "duration")
}

func TestSetup(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	core, logs := observer.New(zapcore.DebugLevel)
	shutdown, err := Setup(zap.New(core))
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "work")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("span").Len())
}

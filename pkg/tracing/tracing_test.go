package tracing

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"gstrelay/internal/config"
	"gstrelay/pkg/logging"
)

func TestInit_Disabled(t *testing.T) {
	tp, err := Init(config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestCreateSampler(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), createSampler(config.SamplerConfig{Type: "always_off"}).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), createSampler(config.SamplerConfig{}).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.5).Description(), createSampler(config.SamplerConfig{Type: "traceidratio", Param: 0.5}).Description())
}

func TestInjectTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	headers := InjectTraceContext(ctx, []kafka.Header{{Key: "event_type", Value: []byte("relay")}})

	var traceparent string
	for _, h := range headers {
		if h.Key == "traceparent" {
			traceparent = string(h.Value)
		}
	}
	assert.Len(t, headers, 2)
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
	assert.Equal(t, span.SpanContext().TraceID().String(), TraceID(ctx))
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestResolveServiceName(t *testing.T) {
	assert.Equal(t, "from-config", resolveServiceName(config.TracingConfig{ServiceName: "from-config"}, "poll-service"))
	assert.Equal(t, "poll-service", resolveServiceName(config.TracingConfig{}, "poll-service"))
	assert.Equal(t, defaultServiceName, resolveServiceName(config.TracingConfig{}, ""))
}

func TestStartMessageSpan_CarriesTraceID(t *testing.T) {
	tp := sdktrace.NewTracerProvider()

	ctx, span := StartMessageSpan(context.Background(), tp.Tracer("test"), "poll", "msg-1")
	defer span.End()

	require.True(t, span.SpanContext().HasTraceID())
	assert.Equal(t, span.SpanContext().TraceID().String(), logging.GetTraceID(ctx))
}

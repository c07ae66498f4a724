package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zaptest"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	tp, err := NewTracerProvider(ctx, Config{CollectorEndpoint: "localhost:4317", SamplingRatio: 1, ServiceName: "posprint"}, log)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, MetricsConfig{ServiceName: "posprint"}, nil)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, LogsConfig{ServiceName: "posprint"}, log)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.Nil(t, lp.ZapCore())
	assert.NoError(t, lp.Shutdown(ctx))
}

type failingProvider struct{ err error }

func (f failingProvider) Shutdown(context.Context) error { return f.err }

func TestLifecycle_Shutdown(t *testing.T) {
	l := newLifecycle("traces", zaptest.NewLogger(t))
	l.started(sdktrace.NewTracerProvider(), "localhost:4317")
	assert.True(t, l.IsEnabled())
	assert.NoError(t, l.Shutdown(context.Background()))

	l = newLifecycle("metrics", nil)
	l.started(failingProvider{err: errors.New("collector gone")}, "localhost:4317")
	err := l.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown metrics provider")
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, sdktrace.AlwaysSample().Description()},
		{2, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{-1, sdktrace.NeverSample().Description()},
		{0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, samplerFor(tt.ratio).Description())
	}
}

func TestInstruments_KeepsFirstError(t *testing.T) {
	provider := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	in := NewInstruments(provider.Meter("test"))
	assert.NotNil(t, in.Counter("ok_total", "fine", "1"))
	require.NoError(t, in.Err())

	in.Counter("", "empty names are rejected", "1")
	in.Histogram("also bad name!", "second error is dropped", "s")
	require.Error(t, in.Err())
	assert.Contains(t, in.Err().Error(), `create instrument :`)
}

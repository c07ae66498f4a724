// Package telemetry wires OpenTelemetry tracing, metrics and log export
// into the print service.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const (
	serviceVersion  = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

// sdkProvider is what the trace, metric and log SDK providers share
type sdkProvider interface {
	Shutdown(ctx context.Context) error
}

// lifecycle tracks one SDK provider. sdk stays nil while the signal is
// disabled, and every method is then a no-op.
type lifecycle struct {
	signal string
	sdk    sdkProvider
	logger *zap.Logger
}

func newLifecycle(signal string, logger *zap.Logger) lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return lifecycle{signal: signal, logger: logger}
}

// IsEnabled reports whether the signal is exported
func (l *lifecycle) IsEnabled() bool {
	return l.sdk != nil
}

// Shutdown flushes what is buffered and stops the exporter, waiting at
// most shutdownTimeout.
func (l *lifecycle) Shutdown(ctx context.Context) error {
	if l.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := l.sdk.Shutdown(ctx); err != nil {
		l.logger.Error("Telemetry shutdown failed", zap.String("signal", l.signal), zap.Error(err))
		return fmt.Errorf("shutdown %s provider: %w", l.signal, err)
	}
	l.logger.Debug("Telemetry provider stopped", zap.String("signal", l.signal))
	return nil
}

func (l *lifecycle) started(sdk sdkProvider, endpoint string) {
	l.sdk = sdk
	l.logger.Info("OpenTelemetry exporter started",
		zap.String("signal", l.signal),
		zap.String("collector_endpoint", endpoint))
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

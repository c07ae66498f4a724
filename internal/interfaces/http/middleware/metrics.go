package middleware

import (
	"time"

	"github.com/erp/posprint/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPMetrics records request count, latency and response size per route.
// A nil or disabled provider yields a pass-through handler.
func HTTPMetrics(mp *telemetry.MeterProvider, log *zap.Logger) gin.HandlerFunc {
	passThrough := func(c *gin.Context) { c.Next() }
	if mp == nil || !mp.IsEnabled() {
		return passThrough
	}

	in := telemetry.NewInstruments(mp.Meter("http.server"))
	requests := in.Counter("http_server_request_total", "Total number of HTTP requests", "{request}")
	latency := in.Histogram("http_server_request_duration_seconds",
		"HTTP request latency distribution in seconds", "s", telemetry.RequestDurationBuckets...)
	// Streams are a few kilobytes; previews with traces run larger
	sizes := in.Histogram("http_server_response_size_bytes",
		"HTTP response body size distribution in bytes", "By", 100, 500, 1000, 5000, 10000, 50000, 100000, 500000)
	if err := in.Err(); err != nil {
		if log != nil {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx := c.Request.Context()
		perRoute := metric.WithAttributes(
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		)

		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()),
		}
		if tenantID := GetJWTTenantID(c); tenantID != "" {
			attrs = append(attrs, telemetry.AttrTenantID.String(tenantID))
		}
		requests.Add(ctx, 1, metric.WithAttributes(attrs...))
		latency.Record(ctx, elapsed.Seconds(), perRoute)
		if size := c.Writer.Size(); size > 0 {
			sizes.Record(ctx, float64(size), perRoute)
		}
	}
}

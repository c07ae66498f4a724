package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	idsKey
)

// ids are the correlation IDs a request accumulates as it passes the
// middleware chain
type ids struct {
	request, tenant, user string
}

func idsFrom(ctx context.Context) ids {
	v, _ := ctx.Value(idsKey).(ids)
	return v
}

func withIDs(ctx context.Context, edit func(*ids)) context.Context {
	v := idsFrom(ctx)
	edit(&v)
	return context.WithValue(ctx, idsKey, v)
}

// WithContext returns a new context carrying logger
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the context's logger, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return withIDs(ctx, func(v *ids) { v.request = id })
}

// WithTenantID stores the tenant ID
func WithTenantID(ctx context.Context, id string) context.Context {
	return withIDs(ctx, func(v *ids) { v.tenant = id })
}

// WithUserID stores the user ID
func WithUserID(ctx context.Context, id string) context.Context {
	return withIDs(ctx, func(v *ids) { v.user = id })
}

// GetRequestID returns the request ID stored in ctx
func GetRequestID(ctx context.Context) string { return idsFrom(ctx).request }

// GetTenantID returns the tenant ID stored in ctx
func GetTenantID(ctx context.Context) string { return idsFrom(ctx).tenant }

// GetUserID returns the user ID stored in ctx
func GetUserID(ctx context.Context) string { return idsFrom(ctx).user }

// L returns the context's logger with trace, request, tenant and user
// fields attached.
//
//	logger.L(ctx).Info("job submitted", zap.String("job_id", id))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich attaches the correlation fields found in ctx to l
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	var fields []zap.Field
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.Stringer("trace_id", sc.TraceID()),
			zap.Stringer("span_id", sc.SpanID()))
	}
	v := idsFrom(ctx)
	for _, f := range []struct{ key, val string }{
		{"request_id", v.request}, {"tenant_id", v.tenant}, {"user_id", v.user},
	} {
		if f.val != "" {
			fields = append(fields, zap.String(f.key, f.val))
		}
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

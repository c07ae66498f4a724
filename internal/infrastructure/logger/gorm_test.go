package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, slow time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), "warn", slow)
	l.level = level
	return l, logs
}

func sqlFn() (string, int64) { return "SELECT * FROM print_jobs", 3 }

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		slow    time.Duration
		begin   time.Time
		err     error
		wantMsg string
	}{
		{"silent", gormlogger.Silent, 0, time.Now(), errors.New("x"), ""},
		{"error", gormlogger.Error, 0, time.Now(), errors.New("connection reset"), "SQL Error"},
		{"not found ignored", gormlogger.Error, 0, time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"not found ignored at info", gormlogger.Info, 0, time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"slow", gormlogger.Warn, time.Millisecond, time.Now().Add(-time.Second), nil, "Slow SQL"},
		{"fast at warn", gormlogger.Warn, time.Hour, time.Now(), nil, ""},
		{"query at info", gormlogger.Info, 0, time.Now(), nil, "SQL Query"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, logs := newObservedGormLogger(tt.level, tt.slow)
			l.Trace(context.Background(), tt.begin, sqlFn, tt.err)
			if tt.wantMsg == "" {
				assert.Equal(t, 0, logs.Len())
				return
			}
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.wantMsg, logs.All()[0].Message)
			assert.Equal(t, "SELECT * FROM print_jobs", logs.All()[0].ContextMap()["sql"])
		})
	}
}

func TestGormLogger_LogModeReturnsCopy(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Silent, 0)
	verbose := l.LogMode(gormlogger.Info)

	verbose.Info(WithTenantID(context.Background(), "t-1"), "migrated %d tables", 1)
	l.Info(context.Background(), "hidden")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "migrated 1 tables", logs.All()[0].Message)
	assert.Equal(t, "t-1", logs.All()[0].ContextMap()["tenant_id"])
}

func TestGormLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"debug":  gormlogger.Info,
		"info":   gormlogger.Info,
		"warn":   gormlogger.Warn,
		"":       gormlogger.Warn,
	}
	for app, want := range tests {
		assert.Equal(t, want, gormLevel(app), app)
	}
}

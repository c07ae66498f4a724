package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled leaves db untouched", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, nil))
		_, ok := db.Config.Plugins["otelgorm"]
		assert.False(t, ok)
	})

	t.Run("enabled emits spans", func(t *testing.T) {
		sr := setupTestTracer(t)
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBName: "posprint"}, zaptest.NewLogger(t)))
		_, ok := db.Config.Plugins["otelgorm"]
		assert.True(t, ok)

		var n int
		require.NoError(t, db.WithContext(context.Background()).Raw("SELECT 1").Scan(&n).Error)
		assert.Equal(t, 1, n)
		assert.NotEmpty(t, sr.Ended())
	})
}

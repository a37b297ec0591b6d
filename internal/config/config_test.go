package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.FormStore)
	assert.Equal(t, 5*time.Minute, cfg.AnalyticsCacheTTL)
	assert.Equal(t, 7, cfg.SnapshotWindowDays)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SKIP_AUTH", "true")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("FORM_STORE", "postgres")
	t.Setenv("ANALYTICS_CACHE_TTL", "90s")
	t.Setenv("SNAPSHOT_WINDOW_DAYS", "14")
	t.Setenv("SNAPSHOT_SCHEDULE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.SkipAuth)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.FormStore)
	assert.Equal(t, 90*time.Second, cfg.AnalyticsCacheTTL)
	assert.Equal(t, 14, cfg.SnapshotWindowDays)
	assert.Empty(t, cfg.SnapshotSchedule)
}

func TestLoadConfigInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("ANALYTICS_CACHE_TTL", "soon")
	t.Setenv("SNAPSHOT_WINDOW_DAYS", "a week")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.AnalyticsCacheTTL)
	assert.Equal(t, 7, cfg.SnapshotWindowDays)
}

func TestLoadConfigNonPositiveCacheTTLFallsBack(t *testing.T) {
	for _, raw := range []string{"0", "0s", "-1m"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("ANALYTICS_CACHE_TTL", raw)

			cfg, err := LoadConfig()
			require.NoError(t, err)
			assert.Equal(t, 5*time.Minute, cfg.AnalyticsCacheTTL)
		})
	}
}

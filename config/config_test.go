package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ranks")
	t.Setenv("COMPETENCY_POLICY", " SUM ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5200", cfg.Port)
	assert.Equal(t, "sum", cfg.CompetencyPolicy)
	assert.Equal(t, 90, cfg.NotificationRetentionDays)
	assert.Equal(t, time.Minute, cfg.DirectorySyncInterval)
	assert.False(t, cfg.R2.Enabled())
	assert.NoError(t, cfg.RequireDatabase())
}

func TestOriginsTrimsEntries(t *testing.T) {
	cfg := &Config{AllowedOrigins: " http://a.test , ,http://b.test"}
	assert.Equal(t, "http://a.test,http://b.test", cfg.Origins())
}

func TestRequireDatabase(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireDatabase())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "Production"}).IsProduction())
	assert.False(t, (&Config{AppEnv: "development"}).IsProduction())
}

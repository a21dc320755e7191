package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "fr", cfg.Locale.Default)
	assert.Equal(t, []string{"fr", "en"}, cfg.Locale.Supported)
	assert.Equal(t, 500, cfg.Inventory.MaxReceiveBatch)
	assert.Equal(t, time.Duration(0), cfg.Inventory.ReconcileInterval)
	assert.True(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("INVENTORY_RECONCILE_INTERVAL", "10m")
	t.Setenv("HTTP_READ_TIMEOUT", "30")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOCALE_SUPPORTED", "en, fr ,it")
	t.Setenv("ASSETS_PUBLIC_BASE_URL", "https://trufas.example/")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Minute, cfg.Inventory.ReconcileInterval)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ReadTimeout)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"en", "fr", "it"}, cfg.Locale.Supported)
	assert.Equal(t, "https://trufas.example", cfg.Assets.PublicBaseURL)
}

func TestValidate_Errores(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("INVENTORY_MAX_RECEIVE_BATCH", "0")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "admin@trufas.example")
	cfg, err := config.Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "INVENTORY_MAX_RECEIVE_BATCH")
	assert.Contains(t, err.Error(), "BOOTSTRAP_ADMIN_PASSWORD")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/inv?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

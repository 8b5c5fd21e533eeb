package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://almox:5000")
	t.Setenv("JWT_SECRET", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "painel-almoxarifado", cfg.App.Name)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 4, cfg.Backend.MaxConcurrency)
	assert.Equal(t, 200, cfg.Backend.ExpiryMaxProducts)
	assert.Equal(t, "./data/prefs", cfg.Prefs.Dir)
	assert.Equal(t, 30*time.Minute, cfg.Workspace.IdleTimeout())
	assert.Equal(t, "bucket", cfg.Dashboard.RollupUnknownPolicy)
	assert.False(t, cfg.App.DocsEnabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://almox:5000")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("WORKSPACE_IDLE_MINUTES", "5")
	t.Setenv("DOCS_ENABLED", "true")
	t.Setenv("ROLLUP_UNKNOWN_POLICY", "almoxarifado")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Workspace.IdleTimeout())
	assert.True(t, cfg.App.DocsEnabled)
	assert.Equal(t, "almoxarifado", cfg.Dashboard.RollupUnknownPolicy)
}

func TestLoad_SinBackendFalla(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("JWT_SECRET", "s3cr3t")

	_, err := Load()
	assert.Error(t, err)
}

func TestLocation_ZonaInvalidaUsaLocal(t *testing.T) {
	assert.Equal(t, time.Local, AppConfig{Timezone: "Marte/Olympus"}.Location())
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "gymovoo", cfg.Database.Name)
	assert.Equal(t, CatalogBuiltin, cfg.Catalog.Source)
	assert.Equal(t, 15*time.Minute, cfg.Plans.ExportExpiry)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  address: ":9090"
catalog:
  source: file
  path: /etc/gymovoo/exercises.yaml
plans:
  export_expiry: 1h
log:
  level: debug
`), 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_ADDRESS", ":7070")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "/etc/gymovoo/exercises.yaml", cfg.Catalog.Path)
	assert.Equal(t, time.Hour, cfg.Plans.ExportExpiry)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoadConfigRejectsIncompleteCatalogSource(t *testing.T) {
	tests := map[string]string{
		"file without path": "catalog:\n  source: file\n",
		"s3 without bucket": "catalog:\n  source: s3\n",
		"unknown source":    "catalog:\n  source: ftp\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
			_, err := LoadConfig(dir)
			assert.Error(t, err)
		})
	}
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "chatty"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "WARN"}.SlogLevel())
}

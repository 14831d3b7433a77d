package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/silvatech/forestctl/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 15, cfg.Sync.TimeoutSecs)
	assert.Equal(t, 60, cfg.Validation.CustomDiameterMin)
	assert.Equal(t, 200, cfg.Validation.CustomDiameterMax)
	assert.Equal(t, 30.0, cfg.Project.DefaultAreaHa)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  path: /tmp/survey.db
log:
  level: debug
server:
  port: 9090
validation:
  custom_diameter_max: 250
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/survey.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250, cfg.Validation.CustomDiameterMax)
	// Defaults still apply for unset values
	assert.Equal(t, 60, cfg.Validation.CustomDiameterMin)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FORESTCTL_LOG_LEVEL", "warn")
	t.Setenv("FORESTCTL_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: 8080},
			Sync:       SyncConfig{Endpoint: "https://script.example/exec", TimeoutSecs: 15},
			Validation: ValidationConfig{CustomDiameterMin: 60, CustomDiameterMax: 200},
			Project:    ProjectConfig{DefaultAreaHa: 30},
		}
	}

	tests := []struct {
		name    string
		mode    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "cli ok", mode: "cli"},
		{name: "serve ok", mode: "serve"},
		{name: "sync ok", mode: "sync"},
		{name: "serve bad port", mode: "serve", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "sync no endpoint", mode: "sync", mutate: func(c *Config) { c.Sync.Endpoint = "" }, wantErr: "sync.endpoint"},
		{name: "inverted bounds", mode: "cli", mutate: func(c *Config) { c.Validation.CustomDiameterMax = 10 }, wantErr: "custom_diameter_max"},
		{name: "zero area", mode: "cli", mutate: func(c *Config) { c.Project.DefaultAreaHa = 0 }, wantErr: "default_area_ha"},
		{name: "unknown mode", mode: "nope", wantErr: "unknown mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := Validate(cfg, tt.mode)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDiameterBounds(t *testing.T) {
	cfg := &Config{Validation: ValidationConfig{CustomDiameterMin: 60, CustomDiameterMax: 200}}
	assert.Equal(t, model.DiameterBounds{Min: 60, Max: 200}, cfg.DiameterBounds())
}

func TestSyncTimeout(t *testing.T) {
	cfg := &Config{Sync: SyncConfig{TimeoutSecs: 20}}
	assert.Equal(t, 20*time.Second, cfg.SyncTimeout())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

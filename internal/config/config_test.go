package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into dir so Load picks up a config.yaml there.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "data/spreadsheets", cfg.Paths.InputDir)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrency)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "negative port",
			modify:  func(c *Config) { c.Server.Port = -1 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log output",
			modify:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: true,
		},
		{
			name:    "empty input dir",
			modify:  func(c *Config) { c.Paths.InputDir = "" },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			modify:  func(c *Config) { c.Pipeline.MaxConcurrency = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9191
paths:
  input_dir: custom/in
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	// File values win over defaults.
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "custom/in", cfg.Paths.InputDir)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/reports", cfg.Paths.ReportsDir)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9191
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	chdir(t, dir)
	t.Setenv("VISA_SERVER_PORT", "7777")
	t.Setenv("VISA_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port, "env wins over file")
	assert.Equal(t, "debug", cfg.Logging.Level, "env wins over defaults")
}

func TestLoadInvalidFileValue(t *testing.T) {
	dir := t.TempDir()
	yaml := `
logging:
  level: verbose
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	chdir(t, dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestEnsureDirectories(t *testing.T) {
	tmp := t.TempDir()
	cfg := Default()
	cfg.Paths.InputDir = filepath.Join(tmp, "in")
	cfg.Paths.ReportsDir = filepath.Join(tmp, "reports")
	cfg.Paths.LogsDir = filepath.Join(tmp, "logs")

	require.NoError(t, cfg.EnsureDirectories())

	assert.DirExists(t, cfg.Paths.InputDir)
	assert.DirExists(t, cfg.Paths.ReportsDir)
	assert.DirExists(t, cfg.Paths.LogsDir)
}

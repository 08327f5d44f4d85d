package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray catalogpipe.yaml or
// .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 30*time.Second, cfg.Batch.CommitTimeout)
	assert.Equal(t, "none", cfg.Inventory.Type)
	assert.True(t, cfg.Cache.Enable)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
batch:
  workers: 8
inventory:
  type: http
  endpoint: https://erp.example.com/api
  timeout: 5s
output:
  format: markdown
`), 0644))
	t.Setenv("CATALOGPIPE_INVENTORY_TOKEN", "secret")
	t.Setenv("CATALOGPIPE_BATCH_WORKERS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, "http", cfg.Inventory.Type)
	assert.Equal(t, "https://erp.example.com/api", cfg.Inventory.Endpoint)
	assert.Equal(t, "secret", cfg.Inventory.Token)
	assert.Equal(t, 5*time.Second, cfg.Inventory.Timeout)
	assert.Equal(t, "markdown", cfg.Output.Format)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalogpipe.yaml"), []byte("log:\n  format: json\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOGPIPE_OUTPUT_DIR=sheets\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("CATALOGPIPE_OUTPUT_DIR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sheets", cfg.Output.Dir)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"bad level":           func(c *Config) { c.Log.Level = "loud" },
		"zero workers":        func(c *Config) { c.Batch.Workers = 0 },
		"http needs endpoint": func(c *Config) { c.Inventory.Type = "http" },
		"bad endpoint":        func(c *Config) { c.Inventory.Type = "http"; c.Inventory.Endpoint = "not a url" },
		"sqlite needs dsn":    func(c *Config) { c.Inventory.Type = "sqlite"; c.Inventory.DSN = "" },
		"unknown inventory":   func(c *Config) { c.Inventory.Type = "ftp" },
		"unknown format":      func(c *Config) { c.Output.Format = "docx" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

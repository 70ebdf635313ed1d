package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutragenie/nutragenie/internal/conflict"
)

func fields(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, DefaultStoreDir(), cfg.Store.Dir)
	assert.Equal(t, 750*time.Millisecond, cfg.Wizard.AdvanceDelay)
	assert.Equal(t, "confirmed", cfg.Wizard.Gate)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, Validate(cfg))
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nutragenie.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"store": {"dir": "`+filepath.ToSlash(dir)+`/store", "backend": "memory"},
		"wizard": {"advanceDelay": "250ms", "gate": "complete"},
		"remote": {"url": "http://localhost:9000", "timeout": "2s"}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Wizard.AdvanceDelay)
	assert.Equal(t, "complete", cfg.Wizard.Gate)
	assert.Equal(t, "http://localhost:9000", cfg.Remote.URL)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep defaults")
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NUTRAGENIE_REMOTE_URL", "https://api.example.com")
	t.Setenv("NUTRAGENIE_LOG_LEVEL", "debug")
	t.Setenv("NUTRAGENIE_WIZARD_ADVANCEDELAY", "1s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.Remote.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.Wizard.AdvanceDelay)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadEnvFile(filepath.Join(dir, ".env")), "missing file is fine")

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NUTRAGENIE_SERVER_ADDR=:9191\n"), 0o644))
	t.Setenv("NUTRAGENIE_SERVER_ADDR", "")
	require.NoError(t, os.Unsetenv("NUTRAGENIE_SERVER_ADDR"))
	require.NoError(t, LoadEnvFile(path))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "s3"
	cfg.Wizard.AdvanceDelay = 10 * time.Second
	cfg.Wizard.Gate = "always"
	cfg.Conflicts.Path = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.Remote.URL = "ftp://example.com"
	cfg.Remote.Timeout = 0
	cfg.Server.Addr = ""
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	assert.ElementsMatch(t, []string{
		"store.backend", "wizard.advanceDelay", "wizard.gate", "conflicts.path",
		"remote.url", "remote.timeout", "server.addr", "log.level", "log.format",
	}, fields(Validate(cfg)))

	cfg = Default()
	cfg.Store.Dir = ""
	assert.Equal(t, []string{"store.dir"}, fields(Validate(cfg)))
	cfg.Store.Backend = BackendMemory
	assert.Empty(t, Validate(cfg))
}

func TestConflictTables(t *testing.T) {
	tables, err := ConflictTables(Default())
	require.NoError(t, err)
	assert.Equal(t, []string{conflict.Dietary, conflict.Health}, tables.Names())

	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allergens:\n  sentinel: none\n  options: [peanut, shellfish]\n"), 0o644))
	cfg := Default()
	cfg.Conflicts.Path = path
	tables, err = ConflictTables(cfg)
	require.NoError(t, err)
	assert.Contains(t, tables.Names(), "allergens")
	assert.Contains(t, tables.Names(), conflict.Dietary)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "user")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"user"`)
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default()
	cfg.Store.Dir = filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDirectories(cfg))
	info, err := os.Stat(cfg.Store.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(filepath.Dir(cfg.Store.Dir), "nutragenie.log"), cfg.LogFile())
}

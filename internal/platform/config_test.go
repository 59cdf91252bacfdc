package platform_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/internal/platform"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{platform.EnvConfig, platform.EnvBackend, platform.EnvURL, platform.EnvAnonKey} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Missing File Yields Defaults", func(t *testing.T) {
		clearEnv(t)
		_, err := platform.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		// The default backend is rest, which needs a URL.
		require.Error(t, err)

		t.Setenv(platform.EnvURL, "https://example.supabase.co")
		cfg, err := platform.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, platform.BackendREST, cfg.Backend)
		assert.Equal(t, "https://example.supabase.co", cfg.REST.URL)
		assert.NotEmpty(t, cfg.SessionFile)
		assert.NotEmpty(t, cfg.SQLite.Path)
	})

	t.Run("File Values And Env Overrides", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
backend: REST
rest:
  url: https://from-file.example
  anon_key: file-key
  timeout: 15s
session_file: ~/keep/session.yaml
log_level: debug
`), 0o600))

		t.Setenv(platform.EnvAnonKey, "env-key")
		cfg, err := platform.LoadConfig(path)
		require.NoError(t, err)

		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, platform.BackendREST, cfg.Backend)
		assert.Equal(t, "https://from-file.example", cfg.REST.URL)
		assert.Equal(t, "env-key", cfg.REST.AnonKey)
		assert.Equal(t, 15*time.Second, cfg.REST.Timeout)
		assert.Equal(t, filepath.Join(home, "keep", "session.yaml"), cfg.SessionFile)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("Backend Override", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(platform.EnvBackend, "memory")
		cfg, err := platform.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, platform.BackendMemory, cfg.Backend)
	})

	t.Run("Malformed File", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("backend: [unclosed"), 0o600))
		_, err := platform.LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(platform.EnvBackend, "postgres")
		_, err := platform.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "unknown backend")
	})
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := platform.Config{
		Backend:     platform.BackendSQLite,
		SQLite:      platform.SQLiteConfig{Path: "/tmp/keep.db"},
		SessionFile: "/tmp/session.yaml",
		LogLevel:    "info",
	}
	require.NoError(t, cfg.Save(path))

	got, err := platform.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigPath(t *testing.T) {
	t.Setenv(platform.EnvConfig, "/etc/keep.yaml")
	assert.Equal(t, "/etc/keep.yaml", platform.ConfigPath())

	t.Setenv(platform.EnvConfig, "")
	assert.Equal(t, "config.yaml", filepath.Base(platform.ConfigPath()))
}

func TestResolveDataPath(t *testing.T) {
	assert.Equal(t, "/home/me/notes.db", platform.ResolveDataPath("/home/me/notes.db", false))
	assert.Equal(t, "", platform.ResolveDataPath("", true))

	inTemp := filepath.Join(t.TempDir(), "notes.db")
	assert.Equal(t, inTemp, platform.ResolveDataPath(inTemp, true))

	assert.Equal(t, filepath.Join(os.TempDir(), "keep-dev", "notes.db"), platform.ResolveDataPath("/home/me/notes.db", true))
	assert.True(t, platform.IsDevRun(), "test binaries count as dev runs")
}

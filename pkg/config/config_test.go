package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tauribridge/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 4444, cfg.Driver.Port)
	assert.Equal(t, 10*time.Second, cfg.Driver.ReadyTimeout.Std())
	assert.Equal(t, 3*time.Second, cfg.Driver.GracePeriod.Std())
	assert.Equal(t, "wry", cfg.Session.BrowserName)
	assert.Equal(t, 10*time.Second, cfg.Session.DefaultWait.Std())
	assert.Equal(t, config.StoreMemory, cfg.Store.Kind)
	assert.Equal(t, config.TransportStdio, cfg.Transport.Kind)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tauri-mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
driver:
  path: /opt/tauri-driver
  port: 5555
  ready_timeout: 2s
  args: ["--native-driver", "/usr/bin/WebKitWebDriver"]
session:
  default_wait: 1500ms
store:
  kind: redis
  redis:
    addr: redis:6379
log:
  format: json
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/tauri-driver", cfg.Driver.Path)
	assert.Equal(t, 5555, cfg.Driver.Port)
	assert.Equal(t, 2*time.Second, cfg.Driver.ReadyTimeout.Std())
	assert.Equal(t, []string{"--native-driver", "/usr/bin/WebKitWebDriver"}, cfg.Driver.Args)
	assert.Equal(t, 1500*time.Millisecond, cfg.Session.DefaultWait.Std())
	assert.Equal(t, "redis", cfg.Store.Kind)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "tauribridge:", cfg.Store.Redis.Prefix, "untouched fields keep their defaults")
	assert.Equal(t, 3*time.Second, cfg.Driver.GracePeriod.Std())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tauri-mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"transport":{"kind":"sse","port":9090},"session":{"command_grace":"5s"}}`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.TransportSSE, cfg.Transport.Kind)
	assert.Equal(t, 9090, cfg.Transport.Port)
	assert.Equal(t, 5*time.Second, cfg.Session.CommandGrace.Std())
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver:\n  ready_timeout: soon\n"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(config.EnvDriverPath, "/env/tauri-driver")
	t.Setenv(config.EnvDriverPort, "4545")
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvDefaultWait, "3s")
	t.Setenv(config.EnvTrace, "true")
	t.Setenv(config.EnvStore, "file")

	cfg := config.Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "/env/tauri-driver", cfg.Driver.Path)
	assert.Equal(t, 4545, cfg.Driver.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.Session.DefaultWait.Std())
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, config.StoreFile, cfg.Store.Kind)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	t.Setenv(config.EnvDriverPort, "forty-four")

	cfg := config.Default()
	assert.ErrorContains(t, cfg.ApplyEnv(), config.EnvDriverPort)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TAURI_MCP_TEST_ONLY=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TAURI_MCP_TEST_ONLY") })

	require.NoError(t, config.LoadEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "from-dotenv", os.Getenv("TAURI_MCP_TEST_ONLY"))
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Driver.Port = 0
	cfg.Store.Kind = "etcd"
	cfg.Transport.Kind = "websocket"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driver.port")
	assert.Contains(t, err.Error(), "etcd")
	assert.Contains(t, err.Error(), "websocket")
}

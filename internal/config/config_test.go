package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocksgo/restocks/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
restocks:
  base_url: https://restocks.example/api
  email: seller@example.com
  password: hunter2
  proxies:
    - 10.0.0.1:8080:user:pass
  timeout: 15s
  rate_limit:
    per_second: 2
    burst: 4
    daily_limit: 5000
monitor:
  interval: 2m
  discord_webhook: https://discord.example/webhook
  metrics_addr: :9100
logging:
  level: debug
  format: json
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "https://restocks.example/api", cfg.Restocks.BaseURL)
		assert.Equal(t, "seller@example.com", cfg.Restocks.Email)
		assert.Equal(t, 15*time.Second, cfg.Restocks.Timeout.Std())
		assert.Equal(t, []string{"10.0.0.1:8080:user:pass"}, cfg.Restocks.Proxies)
		assert.Equal(t, 2.0, cfg.Restocks.RateLimit.PerSecond)
		assert.Equal(t, int64(5000), cfg.Restocks.RateLimit.DailyLimit)
		assert.Equal(t, 2*time.Minute, cfg.Monitor.Interval.Std())
		assert.Equal(t, ":9100", cfg.Monitor.MetricsAddr)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("environment expansion keeps credentials out of the file", func(t *testing.T) {
		t.Setenv("RESTOCKS_TEST_EMAIL", "env@example.com")
		t.Setenv("RESTOCKS_TEST_PASSWORD", "env-secret")

		path := writeConfig(t, `
restocks:
  email: ${RESTOCKS_TEST_EMAIL}
  password: ${RESTOCKS_TEST_PASSWORD}
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env@example.com", cfg.Restocks.Email)
		assert.Equal(t, "env-secret", cfg.Restocks.Password)
	})

	t.Run("defaults apply when fields are omitted", func(t *testing.T) {
		path := writeConfig(t, `
restocks:
  email: seller@example.com
  password: hunter2
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.Restocks.Timeout.Std())
		assert.Equal(t, 5*time.Minute, cfg.Monitor.Interval.Std())
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "text", cfg.Logging.Format)
	})

	t.Run("missing credentials fail validation", func(t *testing.T) {
		path := writeConfig(t, `
monitor:
  interval: 1m
`)

		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "restocks.email is required")
		assert.Contains(t, err.Error(), "restocks.password is required")
	})

	t.Run("invalid duration string", func(t *testing.T) {
		path := writeConfig(t, `
restocks:
  email: seller@example.com
  password: hunter2
  timeout: soon
`)

		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestValidate_RateLimit(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Restocks.Email = "seller@example.com"
	cfg.Restocks.Password = "hunter2"
	cfg.Restocks.RateLimit.PerSecond = 2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "burst must be positive")

	cfg.Restocks.RateLimit.Burst = 4
	require.NoError(t, cfg.Validate())
}

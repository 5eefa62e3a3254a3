package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")

	config, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "weather-dashboard", config.App.Name)
	assert.Equal(t, "1.0.0", config.App.Version)
	assert.Equal(t, "development", config.App.Env)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 10*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, config.Server.IdleTimeout)
	assert.Equal(t, "info", config.Log.Level)

	assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather", config.Weather.CurrentURL)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/forecast", config.Weather.ForecastURL)
	assert.Equal(t, "test-key", config.Weather.APIKey)
	assert.Equal(t, 10*time.Second, config.Weather.RequestTimeout)
	assert.False(t, config.Weather.Parallel)
	assert.Equal(t, 2, config.Weather.Retry.MaxRetries)
	assert.True(t, config.Weather.Breaker.Enabled)
	assert.False(t, config.Cache.Enabled)
	assert.Equal(t, "@every 15m", config.Refresh.Schedule)
	assert.Empty(t, config.Refresh.Cities)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")

	path := writeConfig(t, `
app:
  name: yaml-dashboard
weather:
  current_url: http://localhost:9000/weather
  request_timeout: 3s
  parallel: true
  retry:
    max_retries: 0
cache:
  enabled: true
  addr: redis:6379
  ttl: 1m
refresh:
  cities: ["Atlanta", "Paris"]
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml-dashboard", config.App.Name)
	assert.Equal(t, "http://localhost:9000/weather", config.Weather.CurrentURL)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/forecast", config.Weather.ForecastURL)
	assert.Equal(t, 3*time.Second, config.Weather.RequestTimeout)
	assert.True(t, config.Weather.Parallel)
	assert.Equal(t, 0, config.Weather.Retry.MaxRetries)
	assert.True(t, config.Cache.Enabled)
	assert.Equal(t, "redis:6379", config.Cache.Addr)
	assert.Equal(t, time.Minute, config.Cache.TTL)
	assert.Equal(t, []string{"Atlanta", "Paris"}, config.Refresh.Cities)
}

func TestLoad_EnvironmentOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
app:
  name: yaml-dashboard
weather:
  api_key: yaml-key
`)

	t.Setenv("APP_NAME", "env-dashboard")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WEATHER_API_KEY", "env-key")
	t.Setenv("WEATHER_REQUEST_TIMEOUT", "2s")
	t.Setenv("WEATHER_RETRY_MAX_RETRIES", "4")
	t.Setenv("REFRESH_CITIES", "Atlanta, Boston")

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-dashboard", config.App.Name)
	assert.Equal(t, "prod", config.App.Env)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "env-key", config.Weather.APIKey)
	assert.Equal(t, 2*time.Second, config.Weather.RequestTimeout)
	assert.Equal(t, 4, config.Weather.Retry.MaxRetries)
	assert.Equal(t, []string{"Atlanta", "Boston"}, config.Refresh.Cities)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "weather: [unterminated")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")

	_, err := Load("nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Weather.APIKey = "test-key"
		return c
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }, "port"},
		{"empty endpoint", func(c *Config) { c.Weather.ForecastURL = " " }, "endpoints"},
		{"zero timeout", func(c *Config) { c.Weather.RequestTimeout = 0 }, "timeout"},
		{"negative retries", func(c *Config) { c.Weather.Retry.MaxRetries = -1 }, "retry"},
		{"retry without interval", func(c *Config) { c.Weather.Retry.InitialInterval = 0 }, "interval"},
		{"retry without max interval", func(c *Config) { c.Weather.Retry.MaxInterval = 0 }, "retry max interval must be positive"},
		{"max interval below initial", func(c *Config) { c.Weather.Retry.MaxInterval = time.Millisecond }, "below the initial interval"},
		{"breaker without threshold", func(c *Config) { c.Weather.Breaker.ConsecutiveFailures = 0 }, "breaker"},
		{"rate limit without burst", func(c *Config) { c.Weather.RateLimit.Burst = 0 }, "burst"},
		{"cache without ttl", func(c *Config) { c.Cache.Enabled = true; c.Cache.TTL = 0 }, "TTL"},
		{"too many cities", func(c *Config) { c.Refresh.Cities = []string{"a", "b", "c"} }, "refresh cities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

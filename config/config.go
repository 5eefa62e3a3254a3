package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

const maxDashboardCities = 2

type Config struct {
	App     AppConfig     `yaml:"app" envconfig:"APP"`
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Log     LogConfig     `yaml:"log" envconfig:"LOG"`
	Weather WeatherConfig `yaml:"weather" envconfig:"WEATHER"`
	Cache   CacheConfig   `yaml:"cache" envconfig:"CACHE"`
	Refresh RefreshConfig `yaml:"refresh" envconfig:"REFRESH"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"NAME"`
	Version string `yaml:"version" envconfig:"VERSION"`
	Env     string `yaml:"env" envconfig:"ENV"`
}

type ServerConfig struct {
	Port         string        `yaml:"port" envconfig:"PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
}

type LogConfig struct {
	Level     string `yaml:"level" envconfig:"LEVEL"`
	FilePath  string `yaml:"file_path" envconfig:"FILE_PATH"`
	SentryDSN string `yaml:"sentry_dsn" envconfig:"SENTRY_DSN"`
}

// WeatherConfig describes the provider. Endpoints and credentials are injected, never hardcoded in callers.
type WeatherConfig struct {
	CurrentURL     string          `yaml:"current_url" envconfig:"CURRENT_URL"`
	ForecastURL    string          `yaml:"forecast_url" envconfig:"FORECAST_URL"`
	APIKey         string          `yaml:"api_key" envconfig:"API_KEY"`
	RequestTimeout time.Duration   `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	Parallel       bool            `yaml:"parallel" envconfig:"PARALLEL"`
	Retry          RetryConfig     `yaml:"retry" envconfig:"RETRY"`
	Breaker        BreakerConfig   `yaml:"breaker" envconfig:"BREAKER"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

type RetryConfig struct {
	MaxRetries      int           `yaml:"max_retries" envconfig:"MAX_RETRIES"`
	InitialInterval time.Duration `yaml:"initial_interval" envconfig:"INITIAL_INTERVAL"`
	MaxInterval     time.Duration `yaml:"max_interval" envconfig:"MAX_INTERVAL"`
}

type BreakerConfig struct {
	Enabled             bool          `yaml:"enabled" envconfig:"ENABLED"`
	Interval            time.Duration `yaml:"interval" envconfig:"INTERVAL"`
	Timeout             time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures" envconfig:"CONSECUTIVE_FAILURES"`
}

// RateLimitConfig throttles outgoing provider calls. RPS <= 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" envconfig:"RPS"`
	Burst int     `yaml:"burst" envconfig:"BURST"`
}

type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" envconfig:"ENABLED"`
	Addr     string        `yaml:"addr" envconfig:"ADDR"`
	Password string        `yaml:"password" envconfig:"PASSWORD"`
	DB       int           `yaml:"db" envconfig:"DB"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL"`
}

// RefreshConfig drives the background refresh of the dashboard cities.
type RefreshConfig struct {
	Schedule string        `yaml:"schedule" envconfig:"SCHEDULE"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	Cities   []string      `yaml:"cities" envconfig:"CITIES"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "weather-dashboard",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Weather: WeatherConfig{
			CurrentURL:     "https://api.openweathermap.org/data/2.5/weather",
			ForecastURL:    "https://api.openweathermap.org/data/2.5/forecast",
			RequestTimeout: 10 * time.Second,
			Retry: RetryConfig{
				MaxRetries:      2,
				InitialInterval: 200 * time.Millisecond,
				MaxInterval:     2 * time.Second,
			},
			Breaker: BreakerConfig{
				Enabled:             true,
				Interval:            30 * time.Second,
				Timeout:             10 * time.Second,
				ConsecutiveFailures: 5,
			},
			RateLimit: RateLimitConfig{
				RPS:   1,
				Burst: 4,
			},
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  10 * time.Minute,
		},
		Refresh: RefreshConfig{
			Schedule: "@every 15m",
			Timeout:  30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, the YAML file at path
// and finally the process environment, each layer overriding the previous one.
func Load(path string) (*Config, error) {
	cnf := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if path != "" {
		yamlData, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(yamlData, cnf); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	cnf.Refresh.Cities = cleanCities(cnf.Refresh.Cities)

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return cnf, nil
}

// NewConfig loads the default config file and panics on failure.
func NewConfig() *Config {
	cnf, err := Load(DefaultPath)
	if err != nil {
		panic(err)
	}
	return cnf
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.App.Name) == "" {
		errs = append(errs, errors.New("app name cannot be empty"))
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server port cannot be empty"))
	}
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		errs = append(errs, errors.New("weather API key cannot be empty"))
	}
	if strings.TrimSpace(c.Weather.CurrentURL) == "" || strings.TrimSpace(c.Weather.ForecastURL) == "" {
		errs = append(errs, errors.New("weather endpoints cannot be empty"))
	}
	if c.Weather.RequestTimeout <= 0 {
		errs = append(errs, errors.New("weather request timeout must be positive"))
	}
	if c.Weather.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("retry count cannot be negative"))
	}
	if c.Weather.Retry.MaxRetries > 0 && c.Weather.Retry.InitialInterval <= 0 {
		errs = append(errs, errors.New("retry initial interval must be positive"))
	}
	if c.Weather.Retry.MaxRetries > 0 && c.Weather.Retry.MaxInterval <= 0 {
		errs = append(errs, errors.New("retry max interval must be positive"))
	}
	if c.Weather.Retry.MaxInterval > 0 && c.Weather.Retry.MaxInterval < c.Weather.Retry.InitialInterval {
		errs = append(errs, errors.New("retry max interval cannot be below the initial interval"))
	}
	if c.Weather.Breaker.Enabled && c.Weather.Breaker.ConsecutiveFailures == 0 {
		errs = append(errs, errors.New("breaker consecutive failures must be positive"))
	}
	if c.Weather.RateLimit.RPS > 0 && c.Weather.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate limit burst must be positive"))
	}
	if c.Cache.Enabled {
		if strings.TrimSpace(c.Cache.Addr) == "" {
			errs = append(errs, errors.New("cache address cannot be empty"))
		}
		if c.Cache.TTL <= 0 {
			errs = append(errs, errors.New("cache TTL must be positive"))
		}
	}
	if len(c.Refresh.Cities) > maxDashboardCities {
		errs = append(errs, fmt.Errorf("at most %d refresh cities are supported", maxDashboardCities))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}

func cleanCities(cities []string) []string {
	var out []string
	for _, c := range cities {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

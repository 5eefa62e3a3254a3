package repositories

import (
	"context"
	"net/http"
	"time"

	"weather-dashboard/config"
	"weather-dashboard/internal/metrics"
	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/logger"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WeatherFetcher retrieves the current conditions and the forecast for a location as one validated pair.
type WeatherFetcher interface {
	Name() string
	FetchWeather(ctx context.Context, location string) (models.RawWeather, error)
}

// InitWeatherFetcher builds the provider client described by the configuration.
func InitWeatherFetcher(cfg *config.Config, l *logger.Logger, m *metrics.Metrics) (WeatherFetcher, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return NewOpenWeatherMapRepository(cfg.Weather, l, m, httpClient)
}

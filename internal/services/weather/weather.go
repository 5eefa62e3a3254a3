package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"weather-dashboard/internal/cache"
	"weather-dashboard/internal/metrics"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/repositories"
	"weather-dashboard/pkg/logger"
)

// MaxCompared is the number of cities the dashboard shows side by side.
const MaxCompared = 2

var ErrTooManyCities = fmt.Errorf("at most %d cities can be compared", MaxCompared)

// ReportCache is the storage the service keeps recent reports in.
type ReportCache interface {
	Get(ctx context.Context, key string) (models.CityReport, error)
	Set(ctx context.Context, key string, report models.CityReport) error
}

// WeatherService represents the dashboard weather service.
type WeatherService struct {
	fetcher    repositories.WeatherFetcher
	normalizer *Normalizer
	cache      ReportCache
	m          *metrics.Metrics
	l          *logger.Logger
	now        func() time.Time
}

// NewWeatherService wires the service. cache may be nil, in which case every call goes to the provider.
func NewWeatherService(fetcher repositories.WeatherFetcher, normalizer *Normalizer, cache ReportCache, m *metrics.Metrics, l *logger.Logger) *WeatherService {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}

	return &WeatherService{
		fetcher:    fetcher,
		normalizer: normalizer,
		cache:      cache,
		m:          m,
		l:          l,
		now:        time.Now,
	}
}

// CacheKey is the cache key a city's report is stored under.
func CacheKey(city string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(city))
}

// GetWeather returns the normalized report for city, served from cache when a fresh entry exists.
func (s *WeatherService) GetWeather(ctx context.Context, city string) (models.CityReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return models.CityReport{}, models.ErrEmptyLocation
	}

	if report, ok := s.cached(ctx, city); ok {
		return report, nil
	}

	return s.fetch(ctx, city)
}

// Refresh refetches city and overwrites its cache entry.
func (s *WeatherService) Refresh(ctx context.Context, city string) (models.CityReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return models.CityReport{}, models.ErrEmptyLocation
	}

	return s.fetch(ctx, city)
}

// CompareCities fetches up to two cities concurrently. Reports come back in input order;
// if any city fails, the error of the first failing city in input order is returned.
func (s *WeatherService) CompareCities(ctx context.Context, cities []string) ([]models.CityReport, error) {
	names := make([]string, 0, len(cities))
	for _, c := range cities {
		if c = strings.TrimSpace(c); c != "" {
			names = append(names, c)
		}
	}

	switch {
	case len(names) == 0:
		return nil, models.ErrEmptyLocation
	case len(names) > MaxCompared:
		return nil, ErrTooManyCities
	}

	reports := make([]models.CityReport, len(names))
	errs := make([]error, len(names))

	wg := sync.WaitGroup{}
	for i, name := range names {
		wg.Add(1)

		go func(i int, name string) {
			defer wg.Done()
			reports[i], errs[i] = s.GetWeather(ctx, name)
		}(i, name)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			s.l.Warning("city comparison failed", map[string]any{"city": names[i], "err": err})
			return nil, err
		}
	}

	return reports, nil
}

func (s *WeatherService) fetch(ctx context.Context, city string) (models.CityReport, error) {
	s.l.Debug("fetching weather", map[string]any{"provider": s.fetcher.Name(), "city": city})

	raw, err := s.fetcher.FetchWeather(ctx, city)
	if err != nil {
		s.l.Warning("failed to fetch weather", map[string]any{"city": city, "err": err})
		return models.CityReport{}, err
	}

	// The caller gave up while the pair was in flight; nothing is delivered or cached.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.CityReport{}, &models.TransportError{Endpoint: s.fetcher.Name(), Location: city, Err: ctxErr}
	}

	report := models.CityReport{
		City:      city,
		Weather:   s.normalizer.Normalize(raw.Current, raw.Forecast),
		FetchedAt: s.now().UTC(),
	}

	s.store(ctx, report)

	s.l.Info("weather fetched", map[string]any{
		"city":          city,
		"temperature":   report.Weather.Temperature,
		"forecastCount": len(report.Weather.Forecast),
	})

	return report, nil
}

func (s *WeatherService) cached(ctx context.Context, city string) (models.CityReport, bool) {
	if s.cache == nil {
		return models.CityReport{}, false
	}

	report, err := s.cache.Get(ctx, CacheKey(city))
	switch {
	case err == nil:
		s.m.IncCache("get", "hit")
		// entries are shared across spellings; the label follows this caller
		report.City = city
		return report, true
	case errors.Is(err, cache.ErrMiss):
		s.m.IncCache("get", "miss")
	default:
		s.m.IncCache("get", "error")
		s.l.Warning("cache read failed", map[string]any{"city": city, "err": err})
	}

	return models.CityReport{}, false
}

func (s *WeatherService) store(ctx context.Context, report models.CityReport) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, CacheKey(report.City), report); err != nil {
		s.m.IncCache("set", "error")
		s.l.Warning("cache write failed", map[string]any{"city": report.City, "err": err})
		return
	}
	s.m.IncCache("set", "ok")
}

package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"weather-dashboard/config"
	"weather-dashboard/internal/metrics"
	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/logger"
)

const (
	EndpointCurrent  = "current"
	EndpointForecast = "forecast"

	unitsImperial = "imperial"

	currentSuccessCode  = 200
	forecastSuccessCode = "200"

	unknownProviderMessage = "Unknown"

	maxBodySize = 4 << 20
)

type OpenWeatherMapRepository struct {
	currentURL  *url.URL
	forecastURL *url.URL
	apiKey      string
	parallel    bool
	httpClient  HTTPClient
	resilience  *resilience
	l           *logger.Logger
	m           *metrics.Metrics
}

func NewOpenWeatherMapRepository(
	cfg config.WeatherConfig,
	l *logger.Logger,
	m *metrics.Metrics,
	httpClient HTTPClient,
) (*OpenWeatherMapRepository, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("request timeout must be positive")
	}
	if httpClient == nil {
		return nil, errors.New("http client cannot be nil")
	}

	currentURL, err := parseEndpoint(cfg.CurrentURL)
	if err != nil {
		return nil, fmt.Errorf("invalid current conditions endpoint: %w", err)
	}
	forecastURL, err := parseEndpoint(cfg.ForecastURL)
	if err != nil {
		return nil, fmt.Errorf("invalid forecast endpoint: %w", err)
	}

	w := &OpenWeatherMapRepository{
		currentURL:  currentURL,
		forecastURL: forecastURL,
		apiKey:      cfg.APIKey,
		parallel:    cfg.Parallel,
		httpClient:  httpClient,
		l:           l,
		m:           m,
	}
	w.resilience = newResilience(w.Name(), cfg)

	return w, nil
}

func (w *OpenWeatherMapRepository) Name() string {
	return "openweathermap"
}

// FetchWeather requests current conditions, then the forecast, validating each answer in two stages:
// transport first, then the provider's in-body status marker.
func (w *OpenWeatherMapRepository) FetchWeather(ctx context.Context, location string) (models.RawWeather, error) {
	if w.parallel {
		return w.fetchParallel(ctx, location)
	}

	current, err := w.fetchCurrent(ctx, location)
	if err != nil {
		return models.RawWeather{}, err
	}

	forecast, err := w.fetchForecast(ctx, location)
	if err != nil {
		return models.RawWeather{}, err
	}

	return models.RawWeather{Current: current, Forecast: forecast}, nil
}

// fetchParallel issues both calls at once. A current-conditions failure cancels the forecast call
// and takes precedence when both fail.
func (w *OpenWeatherMapRepository) fetchParallel(ctx context.Context, location string) (models.RawWeather, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg          sync.WaitGroup
		raw         models.RawWeather
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		raw.Current, currentErr = w.fetchCurrent(ctx, location)
		if currentErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		raw.Forecast, forecastErr = w.fetchForecast(ctx, location)
	}()
	wg.Wait()

	if currentErr != nil {
		return models.RawWeather{}, currentErr
	}
	if forecastErr != nil {
		return models.RawWeather{}, forecastErr
	}

	return raw, nil
}

func (w *OpenWeatherMapRepository) fetchCurrent(ctx context.Context, location string) (models.RawCurrentConditions, error) {
	start := time.Now()

	resp, err := w.resilience.do(ctx, EndpointCurrent, location, w.attempt(EndpointCurrent, w.currentURL, location))
	if err != nil {
		return models.RawCurrentConditions{}, w.fail(EndpointCurrent, location, start, err)
	}

	if resp.status == http.StatusNotFound {
		return models.RawCurrentConditions{}, w.fail(EndpointCurrent, location, start, notFound(resp, location, EndpointCurrent,
			func(msg string) error { return &models.LocationNotFoundError{Location: location, Message: msg} }))
	}

	var current models.RawCurrentConditions
	if err := json.Unmarshal(resp.body, &current); err != nil {
		return models.RawCurrentConditions{}, w.fail(EndpointCurrent, location, start, &models.TransportError{
			Endpoint:   EndpointCurrent,
			Location:   location,
			StatusCode: resp.status,
			Err:        fmt.Errorf("failed to parse JSON response: %w", err),
		})
	}

	if !currentStatusOK(current.Cod) {
		return models.RawCurrentConditions{}, w.fail(EndpointCurrent, location, start, &models.LocationNotFoundError{
			Location: location,
			Message:  providerMessage(current.Message),
		})
	}

	w.m.ObserveRequest(EndpointCurrent, metrics.OutcomeSuccess, time.Since(start))
	w.l.Debug("received current conditions", map[string]any{
		"location": location,
		"name":     current.Name,
		"duration": time.Since(start).String(),
	})

	return current, nil
}

func (w *OpenWeatherMapRepository) fetchForecast(ctx context.Context, location string) (models.RawForecast, error) {
	start := time.Now()

	resp, err := w.resilience.do(ctx, EndpointForecast, location, w.attempt(EndpointForecast, w.forecastURL, location))
	if err != nil {
		return models.RawForecast{}, w.fail(EndpointForecast, location, start, err)
	}

	if resp.status == http.StatusNotFound {
		return models.RawForecast{}, w.fail(EndpointForecast, location, start, notFound(resp, location, EndpointForecast,
			func(msg string) error { return &models.ForecastUnavailableError{Location: location, Message: msg} }))
	}

	var forecast models.RawForecast
	if err := json.Unmarshal(resp.body, &forecast); err != nil {
		return models.RawForecast{}, w.fail(EndpointForecast, location, start, &models.TransportError{
			Endpoint:   EndpointForecast,
			Location:   location,
			StatusCode: resp.status,
			Err:        fmt.Errorf("failed to parse JSON response: %w", err),
		})
	}

	if !forecastStatusOK(forecast.Cod) {
		return models.RawForecast{}, w.fail(EndpointForecast, location, start, &models.ForecastUnavailableError{
			Location: location,
			Message:  providerMessage(forecast.Message),
		})
	}

	w.m.ObserveRequest(EndpointForecast, metrics.OutcomeSuccess, time.Since(start))
	w.l.Debug("received forecast", map[string]any{
		"location": location,
		"entries":  len(forecast.List),
		"duration": time.Since(start).String(),
	})

	return forecast, nil
}

// attempt performs a single GET on a context already bounded by the request timeout. 2xx and 404
// answers are handed back for body inspection; every other outcome is a TransportError.
func (w *OpenWeatherMapRepository) attempt(endpoint string, base *url.URL, location string) attemptFunc {
	return func(ctx context.Context) (*providerResponse, error) {
		transportErr := func(status int, err error) error {
			return &models.TransportError{Endpoint: endpoint, Location: location, StatusCode: status, Err: err}
		}

		w.l.Info("making openweathermap API request", map[string]any{
			"endpoint": endpoint,
			"location": location,
		})

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.requestURL(base, location), nil)
		if err != nil {
			return nil, transportErr(0, fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			// keep the api key out of error messages
			if uerr, ok := err.(*url.Error); ok {
				uerr.URL = base.String()
			}
			return nil, transportErr(0, fmt.Errorf("failed to do request: %w", err))
		}
		defer resp.Body.Close()

		w.l.Info("received openweathermap API response", map[string]any{
			"endpoint":   endpoint,
			"status":     resp.StatusCode,
			"statusText": resp.Status,
		})

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			// a body cut short is a network failure whatever the status line said
			return nil, transportErr(0, fmt.Errorf("failed to read response body (status %d): %w", resp.StatusCode, err))
		}

		if resp.StatusCode == http.StatusNotFound {
			return &providerResponse{status: resp.StatusCode, body: body}, nil
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return nil, transportErr(resp.StatusCode, fmt.Errorf("HTTP error: %s", resp.Status))
		}

		return &providerResponse{status: resp.StatusCode, body: body}, nil
	}
}

func (w *OpenWeatherMapRepository) requestURL(base *url.URL, location string) string {
	u := *base
	params := u.Query()
	params.Set("q", location)
	params.Set("appid", w.apiKey)
	params.Set("units", unitsImperial)
	u.RawQuery = params.Encode()

	return u.String()
}

func (w *OpenWeatherMapRepository) fail(endpoint, location string, start time.Time, err error) error {
	w.m.ObserveRequest(endpoint, outcome(err), time.Since(start))
	w.l.Warning("openweathermap request failed", map[string]any{
		"endpoint": endpoint,
		"location": location,
		"err":      err,
	})
	return err
}

func outcome(err error) string {
	var (
		nf *models.LocationNotFoundError
		fu *models.ForecastUnavailableError
	)
	switch {
	case errors.As(err, &nf):
		return metrics.OutcomeLocationNotFound
	case errors.As(err, &fu):
		return metrics.OutcomeForecastMissing
	default:
		return metrics.OutcomeTransportError
	}
}

// providerEnvelope is the error body the provider sends alongside non-2xx answers.
type providerEnvelope struct {
	Cod     json.RawMessage `json:"cod"`
	Message json.RawMessage `json:"message"`
}

// notFound classifies a 404 answer: with a provider error body it is a validation failure built by
// classify, without one it stays a transport failure.
func notFound(resp *providerResponse, location, endpoint string, classify func(msg string) error) error {
	var envelope providerEnvelope
	if err := json.Unmarshal(resp.body, &envelope); err == nil && len(envelope.Cod) > 0 {
		return classify(providerMessage(envelope.Message))
	}

	return &models.TransportError{
		Endpoint:   endpoint,
		Location:   location,
		StatusCode: resp.status,
		Err:        fmt.Errorf("HTTP error: %d %s", resp.status, http.StatusText(resp.status)),
	}
}

// currentStatusOK accepts only the JSON number 200. A textual "200" is a provider defect, not success.
func currentStatusOK(cod json.RawMessage) bool {
	cod = bytes.TrimSpace(cod)
	if len(cod) == 0 || cod[0] == '"' {
		return false
	}

	var code float64
	if err := json.Unmarshal(cod, &code); err != nil {
		return false
	}

	return code == currentSuccessCode
}

// forecastStatusOK accepts only the JSON string "200", which is how the forecast endpoint reports success.
func forecastStatusOK(cod json.RawMessage) bool {
	var code string
	if err := json.Unmarshal(cod, &code); err != nil {
		return false
	}

	return code == forecastSuccessCode
}

func providerMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return unknownProviderMessage
	}

	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		if msg == "" {
			return unknownProviderMessage
		}
		return msg
	}

	return string(raw)
}

func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute URL", raw)
	}
	return u, nil
}

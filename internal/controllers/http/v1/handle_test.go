package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/internal/metrics"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/services/weather"
	"weather-dashboard/pkg/logger"
)

type stubFetcher struct {
	failures map[string]error
}

func (s *stubFetcher) Name() string { return "stub" }

func (s *stubFetcher) FetchWeather(_ context.Context, location string) (models.RawWeather, error) {
	if err, ok := s.failures[location]; ok {
		return models.RawWeather{}, err
	}

	raw := models.RawWeather{
		Current: models.RawCurrentConditions{
			Cod:     []byte(`200`),
			Name:    location,
			Main:    models.CurrentMain{Temp: 91, Humidity: 40},
			Weather: []models.Condition{{Description: "clear sky", Icon: "01d"}},
			Sys:     models.Sys{Sunrise: 1720000000, Sunset: 1720040000},
		},
		Forecast: models.RawForecast{Cod: []byte(`"200"`), Cnt: 40},
	}
	for i := 0; i < 40; i++ {
		raw.Forecast.List = append(raw.Forecast.List, models.ForecastEntry{Dt: int64(i)})
	}

	return raw, nil
}

func newTestApp(failures map[string]error) *fiber.App {
	m := metrics.New()
	svc := weather.NewWeatherService(&stubFetcher{failures: failures}, weather.NewNormalizer(time.UTC), nil, m, logger.Nop())

	app := fiber.New()
	NewRouter(app, svc, m, logger.Nop())
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHandleWeatherCall_Success(t *testing.T) {
	status, body := doGet(t, newTestApp(nil), "/weather?city=Atlanta")
	require.Equal(t, fiber.StatusOK, status)

	var resp WeatherResponse
	require.NoError(t, json.Unmarshal(body, &resp))

	assert.Equal(t, "Atlanta", resp.City)
	assert.Equal(t, "Clear sky", resp.Weather.Description)
	assert.Equal(t, "09:46 AM", resp.Weather.Sunrise)
	assert.Equal(t, "08:53 PM", resp.Weather.Sunset)
	assert.Len(t, resp.Weather.Forecast, 40)
	require.Len(t, resp.Daily, 5)
	for i, entry := range resp.Daily {
		assert.Equal(t, int64(i*8), entry.Dt)
	}
}

func TestHandleWeatherCall_CityWithSpaces(t *testing.T) {
	status, body := doGet(t, newTestApp(nil), "/weather?city=New%20York")
	require.Equal(t, fiber.StatusOK, status)

	var resp WeatherResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "New York", resp.City)
}

func TestHandleWeatherCall_MissingCity(t *testing.T) {
	app := newTestApp(nil)

	for _, target := range []string{"/weather", "/weather?city=", "/weather?city=%20%20"} {
		status, body := doGet(t, app, target)
		assert.Equal(t, fiber.StatusBadRequest, status, target)
		assert.Contains(t, string(body), "Missing required parameter: city", target)
	}
}

func TestHandleWeatherCall_ErrorMapping(t *testing.T) {
	failures := map[string]error{
		"Atlantis": &models.LocationNotFoundError{Location: "Atlantis", Message: "city not found"},
		"Gotham":   &models.ForecastUnavailableError{Location: "Gotham", Message: "Unknown"},
		"Paris":    &models.TransportError{Endpoint: "current", Location: "Paris", StatusCode: 502, Err: errors.New("HTTP error: 502 Bad Gateway")},
		"Rome":     &models.TransportError{Endpoint: "forecast", Location: "Rome", Err: context.DeadlineExceeded},
	}
	app := newTestApp(failures)

	tests := []struct {
		city    string
		status  int
		message string
	}{
		{"Atlantis", fiber.StatusNotFound, "city not found"},
		{"Gotham", fiber.StatusServiceUnavailable, "forecast data error"},
		{"Paris", fiber.StatusBadGateway, "Failed to fetch weather data"},
		{"Rome", fiber.StatusGatewayTimeout, "timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			status, body := doGet(t, app, "/weather?city="+tt.city)

			assert.Equal(t, tt.status, status)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Contains(t, resp.Error, tt.message)
		})
	}
}

func TestHandleCompareCall_Success(t *testing.T) {
	status, body := doGet(t, newTestApp(nil), "/weather/compare?cities=Atlanta,Paris")
	require.Equal(t, fiber.StatusOK, status)

	var resp CompareResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Cities, 2)
	assert.Equal(t, "Atlanta", resp.Cities[0].City)
	assert.Equal(t, "Paris", resp.Cities[1].City)
	assert.Len(t, resp.Cities[1].Daily, 5)
}

func TestHandleCompareCall_BadRequests(t *testing.T) {
	app := newTestApp(nil)

	status, body := doGet(t, app, "/weather/compare")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "cities")

	status, body = doGet(t, app, "/weather/compare?cities=Atlanta,Paris,Rome")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "at most 2")

	status, _ = doGet(t, app, "/weather/compare?cities=,")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleCompareCall_OneCityFails(t *testing.T) {
	app := newTestApp(map[string]error{
		"Atlantis": &models.LocationNotFoundError{Location: "Atlantis", Message: "city not found"},
	})

	status, body := doGet(t, app, "/weather/compare?cities=Atlanta,Atlantis")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, string(body), "Atlantis")
}

func TestRouter_MetricsAndSwagger(t *testing.T) {
	app := newTestApp(nil)
	doGet(t, app, "/weather?city=Atlanta")

	status, body := doGet(t, app, "/metrics")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "go_goroutines")

	status, body = doGet(t, app, "/swagger/doc.json")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "/weather/compare")
}

func TestErrorStatus_Unclassified(t *testing.T) {
	status, msg := errorStatus(errors.New("boom"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotContains(t, msg, "boom")
}

package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"weather-dashboard/internal/models"
	"weather-dashboard/internal/services/weather"
)

// WeatherResponse represents one city's dashboard panel
type WeatherResponse struct {
	City      string                   `json:"city" example:"Atlanta"`
	FetchedAt time.Time                `json:"fetched_at"`
	Weather   models.NormalizedWeather `json:"weather"`
	Daily     []models.ForecastEntry   `json:"daily"`
}

// CompareResponse represents the two-cities view
type CompareResponse struct {
	Cities []WeatherResponse `json:"cities"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: city"`
}

// GetWeather godoc
// @Summary Get current weather and forecast for a city
// @Description Fetches current conditions and the 5-day/3-hour forecast for a city and returns the normalized record
// @Tags Weather
// @Produce json
// @Param city query string true "City name, passed to the provider verbatim" example(Atlanta)
// @Success 200 {object} WeatherResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - missing city"
// @Failure 404 {object} ErrorResponse "City not found"
// @Failure 502 {object} ErrorResponse "Provider unreachable or failing"
// @Failure 503 {object} ErrorResponse "Forecast data unavailable"
// @Failure 504 {object} ErrorResponse "Provider timed out"
// @Router /weather [get]
// @Example {curl} Example usage:
//
//	curl -X GET "http://localhost:8080/weather?city=Atlanta"
func (r *routes) handleWeatherCall(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: city",
		})
	}

	report, err := r.service.GetWeather(c.UserContext(), city)
	if err != nil {
		return r.fail(c, err, map[string]any{"city": city})
	}

	return c.JSON(toResponse(report))
}

// CompareWeather godoc
// @Summary Compare the weather of two cities
// @Description Fetches one or two cities concurrently; any failing city fails the whole comparison
// @Tags Weather
// @Produce json
// @Param cities query string true "Comma-separated city names, at most two" example(Atlanta,Paris)
// @Success 200 {object} CompareResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - missing or too many cities"
// @Failure 404 {object} ErrorResponse "City not found"
// @Failure 502 {object} ErrorResponse "Provider unreachable or failing"
// @Failure 503 {object} ErrorResponse "Forecast data unavailable"
// @Failure 504 {object} ErrorResponse "Provider timed out"
// @Router /weather/compare [get]
func (r *routes) handleCompareCall(c *fiber.Ctx) error {
	raw := c.Query("cities")
	if strings.TrimSpace(raw) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: cities",
		})
	}

	reports, err := r.service.CompareCities(c.UserContext(), strings.Split(raw, ","))
	if err != nil {
		return r.fail(c, err, map[string]any{"cities": raw})
	}

	resp := CompareResponse{Cities: make([]WeatherResponse, len(reports))}
	for i, report := range reports {
		resp.Cities[i] = toResponse(report)
	}

	return c.JSON(resp)
}

func (r *routes) fail(c *fiber.Ctx, err error, fields map[string]any) error {
	status, msg := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		fields["status"] = status
		r.l.Error(err, fields)
	}

	return c.Status(status).JSON(ErrorResponse{Error: msg})
}

func errorStatus(err error) (int, string) {
	var (
		notFound    *models.LocationNotFoundError
		unavailable *models.ForecastUnavailableError
		transport   *models.TransportError
	)

	switch {
	case errors.Is(err, models.ErrEmptyLocation):
		return fiber.StatusBadRequest, "Missing required parameter: city"
	case errors.Is(err, weather.ErrTooManyCities):
		return fiber.StatusBadRequest, err.Error()
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, notFound.Error()
	case errors.As(err, &unavailable):
		return fiber.StatusServiceUnavailable, unavailable.Error()
	case errors.As(err, &transport) && transport.Timeout():
		return fiber.StatusGatewayTimeout, "Weather provider timed out"
	case errors.As(err, &transport):
		return fiber.StatusBadGateway, "Failed to fetch weather data"
	default:
		return fiber.StatusInternalServerError, "Failed to fetch weather data"
	}
}

func toResponse(report models.CityReport) WeatherResponse {
	return WeatherResponse{
		City:      report.City,
		FetchedAt: report.FetchedAt,
		Weather:   report.Weather,
		Daily:     models.DailySamples(report.Weather.Forecast, models.DefaultDailyStep),
	}
}

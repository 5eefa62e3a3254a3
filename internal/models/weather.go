package models

import (
	"encoding/json"
	"time"
)

// Condition is one entry of the provider's "weather" array.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main" example:"Clear"`
	Description string `json:"description" example:"clear sky"`
	Icon        string `json:"icon" example:"01d"`
}

type CurrentMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// RawCurrentConditions is the current-weather payload as the provider sends it.
// Cod and Message stay raw: the provider types them differently per endpoint and per outcome.
type RawCurrentConditions struct {
	Cod      json.RawMessage `json:"cod,omitempty"`
	Message  json.RawMessage `json:"message,omitempty"`
	Name     string          `json:"name"`
	Dt       int64           `json:"dt"`
	Timezone int             `json:"timezone"`
	Main     CurrentMain     `json:"main"`
	Weather  []Condition     `json:"weather"`
	Wind     Wind            `json:"wind"`
	Sys      Sys             `json:"sys"`
}

type ForecastMain struct {
	Temp      float64 `json:"temp" example:"88.5"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  int     `json:"humidity"`
}

// ForecastEntry is a single 3-hour slot of the 5-day forecast.
type ForecastEntry struct {
	Dt      int64        `json:"dt" example:"1720008000"`
	DtTxt   string       `json:"dt_txt" example:"2024-07-03 12:00:00"`
	Main    ForecastMain `json:"main"`
	Weather []Condition  `json:"weather"`
	Pop     float64      `json:"pop"`
}

type ForecastCity struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone int    `json:"timezone"`
	Sunrise  int64  `json:"sunrise"`
	Sunset   int64  `json:"sunset"`
}

// RawForecast is the 5-day/3-hour forecast payload. Its Cod is a JSON string on success.
type RawForecast struct {
	Cod     json.RawMessage `json:"cod,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
	Cnt     int             `json:"cnt"`
	List    []ForecastEntry `json:"list"`
	City    ForecastCity    `json:"city"`
}

// RawWeather holds both validated payloads. Fetchers hand it out whole or not at all.
type RawWeather struct {
	Current  RawCurrentConditions
	Forecast RawForecast
}

// NormalizedWeather is the display-ready record built from a RawWeather.
type NormalizedWeather struct {
	Temperature float64         `json:"temperature" example:"91"`
	Humidity    int             `json:"humidity" example:"40"`
	Description string          `json:"description" example:"Clear sky"`
	Icon        string          `json:"icon" example:"01d"`
	Sunrise     string          `json:"sunrise" example:"05:46 AM"`
	Sunset      string          `json:"sunset" example:"04:53 PM"`
	Forecast    []ForecastEntry `json:"forecast"`
}

// CityReport pairs a normalized record with the city label the user asked for.
type CityReport struct {
	City      string            `json:"city" example:"Atlanta"`
	Weather   NormalizedWeather `json:"weather"`
	FetchedAt time.Time         `json:"fetched_at"`
}

const DefaultDailyStep = 8

// DailySamples picks every step-th entry, approximating one sample per day for 3-hour slots.
func DailySamples(entries []ForecastEntry, step int) []ForecastEntry {
	if step <= 0 {
		step = DefaultDailyStep
	}

	samples := make([]ForecastEntry, 0, (len(entries)+step-1)/step)
	for i := 0; i < len(entries); i += step {
		samples = append(samples, entries[i])
	}

	return samples
}

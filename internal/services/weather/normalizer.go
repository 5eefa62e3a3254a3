package weather

import (
	"time"
	"unicode"
	"unicode/utf8"

	"weather-dashboard/internal/models"
)

// ClockLayout is the 12-hour shape downstream consumers expect for sunrise and sunset, e.g. "06:45 AM".
const ClockLayout = "03:04 PM"

// Normalizer reshapes a validated provider pair into a NormalizedWeather record.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer formats times in loc. A nil loc means the system's local zone at format time.
func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{loc: loc}
}

func (n *Normalizer) Normalize(current models.RawCurrentConditions, forecast models.RawForecast) models.NormalizedWeather {
	var description, icon string
	if len(current.Weather) > 0 {
		description = capitalizeFirst(current.Weather[0].Description)
		icon = current.Weather[0].Icon
	}

	entries := make([]models.ForecastEntry, len(forecast.List))
	copy(entries, forecast.List)

	return models.NormalizedWeather{
		Temperature: current.Main.Temp,
		Humidity:    current.Main.Humidity,
		Description: description,
		Icon:        icon,
		Sunrise:     n.clock(current.Sys.Sunrise),
		Sunset:      n.clock(current.Sys.Sunset),
		Forecast:    entries,
	}
}

func (n *Normalizer) clock(epoch int64) string {
	loc := n.loc
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(epoch, 0).In(loc).Format(ClockLayout)
}

// capitalizeFirst upper-cases the first rune only; the rest keeps the provider's casing.
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

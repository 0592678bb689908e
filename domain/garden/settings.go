package garden

import (
	"time"

	pkgerrors "gardend/pkg/errors"
)

// Weather is the garden-wide cosmetic weather setting.
type Weather string

const (
	WeatherSunny Weather = "sunny"
	WeatherRainy Weather = "rainy"
	WeatherMisty Weather = "misty"
)

// IsValid reports whether the weather value is one of the known states.
func (w Weather) IsValid() bool {
	switch w {
	case WeatherSunny, WeatherRainy, WeatherMisty:
		return true
	}
	return false
}

// Settings is the shared singleton garden configuration. There is no owner
// beyond "last writer wins"; any client may overwrite it.
type Settings struct {
	Weather     Weather
	LastUpdated time.Time
}

// DefaultSettings is the state clients observe before the singleton document
// has ever been written.
func DefaultSettings() Settings {
	return Settings{Weather: WeatherSunny}
}

// NewSettings validates a weather value and stamps the update instant.
func NewSettings(weather Weather, now time.Time) (Settings, error) {
	if !weather.IsValid() {
		return Settings{}, pkgerrors.NewValidationError("unknown weather value")
	}
	return Settings{Weather: weather, LastUpdated: now}, nil
}

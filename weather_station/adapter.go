package weather_station

import (
	"math"
	"net/http"

	"github.com/evkuzin/weatherdash/config"
	"github.com/sirupsen/logrus"
)

const (
	// DisplayLines and DisplayColumns describe the character display.
	DisplayLines   = 2
	DisplayColumns = 16
)

// Reading is a temperature (°C) and relative humidity (%RH) pair.
// NaN in either field marks a value the sensor could not provide.
type Reading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// InvalidReading is the value a station starts with before the first
// successful measurement.
func InvalidReading() Reading {
	return Reading{Temperature: math.NaN(), Humidity: math.NaN()}
}

// Valid is true when both quantities hold a measurement.
func (r Reading) Valid() bool {
	return !math.IsNaN(r.Temperature) && !math.IsNaN(r.Humidity)
}

// Sensor measures the environment once per call.
type Sensor interface {
	Sense() (Reading, error)
	Halt() error
}

// Display is a character display with DisplayLines rows.
type Display interface {
	Clear() error
	Print(line int, text string) error
	Halt() error
}

type WeatherStation interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
	MetricsHandler() http.Handler
	Start()
	Init(config *config.Config, logger *logrus.Logger) error
}

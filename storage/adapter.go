package storage

import (
	"github.com/evkuzin/weatherdash/weather_station"
)

// Adapter keeps the latest reading seen by the station.
type Adapter interface {
	// Put stores r and reports whether it was accepted.
	Put(r weather_station.Reading) bool
	Get() weather_station.Reading
}

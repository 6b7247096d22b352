package storage

import (
	"github.com/evkuzin/weatherdash/weather_station"
)

// Snapshot is the single current reading shared by every presenter.
// It is not safe for concurrent use: only the control loop touches it.
type Snapshot struct {
	current weather_station.Reading
}

// Put overwrites the snapshot with r unless r carries a NaN, in which case
// the previous value is kept and false is returned.
func (s *Snapshot) Put(r weather_station.Reading) bool {
	if !r.Valid() {
		return false
	}
	s.current = r
	return true
}

func (s *Snapshot) Get() weather_station.Reading {
	return s.current
}

// NewStorage returns a snapshot holding an invalid reading.
func NewStorage() Adapter {
	return &Snapshot{current: weather_station.InvalidReading()}
}

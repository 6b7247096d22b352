package weather_station

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// FakeSensor replays a scripted list of readings, then keeps returning the
// last one. Used when no sensor hardware is attached.
type FakeSensor struct {
	readings []Reading
	pos      int
	// Err, when set, is returned by every Sense call.
	Err error
}

func NewFakeSensor(readings ...Reading) *FakeSensor {
	return &FakeSensor{readings: readings}
}

func (s *FakeSensor) Sense() (Reading, error) {
	if s.Err != nil {
		return InvalidReading(), s.Err
	}
	if len(s.readings) == 0 {
		return InvalidReading(), errors.New("fake sensor has no readings")
	}
	r := s.readings[s.pos]
	if s.pos < len(s.readings)-1 {
		s.pos++
	}
	return r, nil
}

func (s *FakeSensor) Halt() error {
	return nil
}

type logDisplay struct {
	logger *logrus.Logger
}

// NewLogDisplay returns a Display that writes every printed line to logger.
func NewLogDisplay(logger *logrus.Logger) Display {
	return &logDisplay{logger: logger}
}

func (d *logDisplay) Clear() error { return nil }

func (d *logDisplay) Print(line int, text string) error {
	d.logger.Infof("display[%d] %s", line, text)
	return nil
}

func (d *logDisplay) Halt() error { return nil }

type discardDisplay struct{}

func (discardDisplay) Clear() error            { return nil }
func (discardDisplay) Print(int, string) error { return nil }
func (discardDisplay) Halt() error             { return nil }

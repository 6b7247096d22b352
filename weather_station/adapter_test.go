package weather_station

import (
	"errors"
	"math"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestReadingValid(t *testing.T) {
	cases := []struct {
		r    Reading
		want bool
	}{
		{Reading{21.5, 44}, true},
		{Reading{0, 0}, true},
		{Reading{math.NaN(), 44}, false},
		{Reading{21.5, math.NaN()}, false},
		{InvalidReading(), false},
	}
	for _, tc := range cases {
		if got := tc.r.Valid(); got != tc.want {
			t.Errorf("%+v.Valid() = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestFakeSensorReplaysThenHolds(t *testing.T) {
	s := NewFakeSensor(Reading{1, 2}, Reading{3, 4})
	want := []Reading{{1, 2}, {3, 4}, {3, 4}}
	for i, w := range want {
		got, err := s.Sense()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d = %+v, want %+v", i, got, w)
		}
	}

	s.Err = errors.New("bus timeout")
	got, err := s.Sense()
	if err == nil || got.Valid() {
		t.Errorf("expected invalid reading with error, got %+v, %v", got, err)
	}
}

var (
	_ Display = (*hd44780Display)(nil)
	_ Display = (*logDisplay)(nil)
	_ Display = discardDisplay{}
	_ Sensor  = (*bme280Sensor)(nil)
	_ Sensor  = (*FakeSensor)(nil)
)

func TestReadingFromEnv(t *testing.T) {
	cases := []struct {
		name     string
		env      physic.Env
		wantTemp float64
		wantHum  float64
	}{
		{"room", physic.Env{Temperature: physic.ZeroCelsius + 21500*physic.MilliCelsius, Humidity: 44 * physic.PercentRH}, 21.5, 44},
		{"freezing", physic.Env{Temperature: physic.ZeroCelsius, Humidity: 0}, 0, 0},
		{"below zero", physic.Env{Temperature: physic.ZeroCelsius - 7250*physic.MilliCelsius, Humidity: 100 * physic.PercentRH}, -7.25, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := readingFromEnv(tc.env)
			if math.Abs(got.Temperature-tc.wantTemp) > 1e-6 || math.Abs(got.Humidity-tc.wantHum) > 1e-6 {
				t.Errorf("readingFromEnv = %+v, want {%v %v}", got, tc.wantTemp, tc.wantHum)
			}
		})
	}
}

package weather_station

import (
	"fmt"

	"github.com/evkuzin/weatherdash/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/devices/v3/hd44780"
	"periph.io/x/host/v3"
)

// hostInitialisation loads the periph host drivers. It is safe to call more
// than once.
func hostInitialisation(logger *logrus.Logger) error {
	state, err := host.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	logger.Debugf("periph drivers: %d loaded, %d skipped", len(state.Loaded), len(state.Skipped))
	for _, failure := range state.Failed {
		logger.Warnf("periph driver %s failed to load: %v", failure.D, failure.Err)
	}
	return nil
}

type bme280Sensor struct {
	dev *bmxx80.Dev
	bus i2c.BusCloser
}

func (s *bme280Sensor) Sense() (Reading, error) {
	env := physic.Env{}
	if err := s.dev.Sense(&env); err != nil {
		return InvalidReading(), err
	}
	return readingFromEnv(env), nil
}

// readingFromEnv converts periph units to °C and %RH.
func readingFromEnv(env physic.Env) Reading {
	return Reading{
		Temperature: float64(env.Temperature-physic.ZeroCelsius) / float64(physic.Celsius),
		Humidity:    float64(env.Humidity) / float64(physic.PercentRH),
	}
}

func (s *bme280Sensor) Halt() error {
	err := s.dev.Halt()
	if cerr := s.bus.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenSensor initialises the sensor driver selected in the config.
func OpenSensor(cfg config.Sensor, logger *logrus.Logger) (Sensor, error) {
	if cfg.Driver == "fake" {
		logger.Info("Using fake sensor data")
		return NewFakeSensor(Reading{Temperature: 20, Humidity: 50}), nil
	}
	if err := hostInitialisation(logger); err != nil {
		return nil, err
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("cannot open a bus: %w", err)
	}
	logger.Debugf("I2C bus open call successful. Got: %v", bus.String())

	// Weather monitoring profile: one sample per request, no filtering.
	sensor, err := bmxx80.NewI2C(bus, cfg.Address, &bmxx80.Opts{
		Temperature: bmxx80.O1x,
		Pressure:    bmxx80.O1x,
		Humidity:    bmxx80.O1x,
		Filter:      bmxx80.NoFilter,
	})
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("cannot open bme280 at %#x: %w", cfg.Address, err)
	}
	logger.Infof("Sensor ready: %s", sensor)
	return &bme280Sensor{dev: sensor, bus: bus}, nil
}

type hd44780Display struct {
	dev *hd44780.Dev
}

// Clear blanks the screen. The driver sends the clear instruction on Halt.
func (d *hd44780Display) Clear() error {
	return d.dev.Halt()
}

func (d *hd44780Display) Print(line int, text string) error {
	if err := d.dev.SetCursor(uint8(line), 0); err != nil {
		return err
	}
	return d.dev.Print(text)
}

func (d *hd44780Display) Halt() error {
	return d.dev.Halt()
}

func pinByName(name string) (gpio.PinOut, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown gpio pin %q", name)
	}
	return p, nil
}

// OpenDisplay initialises the display driver selected in the config.
func OpenDisplay(cfg config.Display, logger *logrus.Logger) (Display, error) {
	switch cfg.Driver {
	case "log":
		return NewLogDisplay(logger), nil
	case "none":
		return discardDisplay{}, nil
	}
	if err := hostInitialisation(logger); err != nil {
		return nil, err
	}

	data := make([]gpio.PinOut, 0, len(cfg.DataPins))
	for _, name := range cfg.DataPins {
		p, err := pinByName(name)
		if err != nil {
			return nil, err
		}
		data = append(data, p)
	}
	rs, err := pinByName(cfg.RSPin)
	if err != nil {
		return nil, err
	}
	e, err := pinByName(cfg.EPin)
	if err != nil {
		return nil, err
	}
	dev, err := hd44780.New(data, rs, e)
	if err != nil {
		return nil, fmt.Errorf("cannot open hd44780: %w", err)
	}
	logger.Infof("Display ready: hd44780 data=%v rs=%s e=%s", cfg.DataPins, cfg.RSPin, cfg.EPin)
	return &hd44780Display{dev: dev}, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval         = 2 * time.Second
	DefaultPollInterval     = 500 * time.Millisecond
	DefaultAssociateTimeout = 30 * time.Second
	DefaultHTTPAddr         = ":80"
	DefaultSensorAddress    = 0x76
	DefaultMQTTTopic        = "weatherdash/reading"
	DefaultMQTTClientID     = "weatherdash"
)

// Network holds the credentials of the wireless network and how long to
// wait for the station to obtain an address on it.
type Network struct {
	SSID         string        `yaml:"ssid"`
	Passphrase   string        `yaml:"passphrase"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxAttempts  int           `yaml:"max_attempts"`
	// WaitForever disables the timeout: startup blocks until an address
	// shows up.
	WaitForever bool `yaml:"wait_forever"`
}

type Sensor struct {
	// Driver is one of "bme280" or "fake".
	Driver  string `yaml:"driver"`
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
}

type Display struct {
	// Driver is one of "hd44780", "log" or "none".
	Driver   string   `yaml:"driver"`
	DataPins []string `yaml:"data_pins"`
	RSPin    string   `yaml:"rs_pin"`
	EPin     string   `yaml:"e_pin"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Metrics struct {
	Addr string `yaml:"addr"`
}

type telegram struct {
	Key    string `yaml:"key"`
	Debug  bool   `yaml:"debug"`
	Enable bool   `yaml:"enable"`
}

type MQTT struct {
	Enable   bool   `yaml:"enable"`
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

type Config struct {
	LogLevel string        `yaml:"log_level"`
	Interval time.Duration `yaml:"interval"`
	Network  Network       `yaml:"network"`
	Sensor   Sensor        `yaml:"sensor"`
	Display  Display       `yaml:"display"`
	HTTP     HTTP          `yaml:"http"`
	Metrics  Metrics       `yaml:"metrics"`
	Telegram telegram      `yaml:"telegram"`
	MQTT     MQTT          `yaml:"mqtt"`
}

func NewConfig(f string) (*Config, error) {
	rawConf, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("cannot open a Config: %w", err)
	}
	return Parse(rawConf)
}

// Parse decodes a YAML document, fills in defaults and validates the result.
func Parse(rawConf []byte) (*Config, error) {
	conf := Config{}
	err := yaml.Unmarshal(rawConf, &conf)
	if err != nil {
		return nil, fmt.Errorf("cannot unmarshall a Config: %w", err)
	}
	conf.setDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Network.PollInterval == 0 {
		c.Network.PollInterval = DefaultPollInterval
	}
	if c.Network.Timeout == 0 && !c.Network.WaitForever {
		c.Network.Timeout = DefaultAssociateTimeout
	}
	if c.Sensor.Driver == "" {
		c.Sensor.Driver = "bme280"
	}
	if c.Sensor.Address == 0 {
		c.Sensor.Address = DefaultSensorAddress
	}
	if c.Display.Driver == "" {
		c.Display.Driver = "hd44780"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = DefaultMQTTTopic
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = DefaultMQTTClientID
	}
}

// Validate reports the first setting that makes the station unable to start.
func (c *Config) Validate() error {
	if c.Network.SSID == "" {
		return errors.New("network.ssid must be set")
	}
	if c.Interval < 0 || c.Network.PollInterval < 0 || c.Network.Timeout < 0 {
		return errors.New("durations must not be negative")
	}
	if c.Network.WaitForever && (c.Network.Timeout > 0 || c.Network.MaxAttempts > 0) {
		return errors.New("network.wait_forever cannot be combined with timeout or max_attempts")
	}
	switch c.Sensor.Driver {
	case "bme280", "fake":
	default:
		return fmt.Errorf("unknown sensor driver %q", c.Sensor.Driver)
	}
	switch c.Display.Driver {
	case "hd44780":
		if len(c.Display.DataPins) != 4 || c.Display.RSPin == "" || c.Display.EPin == "" {
			return errors.New("hd44780 display needs 4 data_pins, rs_pin and e_pin")
		}
	case "log", "none":
	default:
		return fmt.Errorf("unknown display driver %q", c.Display.Driver)
	}
	if c.Telegram.Enable && c.Telegram.Key == "" {
		return errors.New("telegram.key must be set when telegram is enabled")
	}
	if c.MQTT.Enable && c.MQTT.Broker == "" {
		return errors.New("mqtt.broker must be set when mqtt is enabled")
	}
	return nil
}

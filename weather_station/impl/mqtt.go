package impl

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/evkuzin/weatherdash/config"
	"github.com/evkuzin/weatherdash/weather_station"
	"github.com/sirupsen/logrus"
)

const publishTimeout = time.Second

type publisher interface {
	Publish(r weather_station.Reading) error
	Close()
}

type mqttPublisher struct {
	client mqtt.Client
	topic  string
}

func newMQTTPublisher(cfg config.MQTT, logger *logrus.Logger) (*mqttPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warnf("MQTT connection lost: %v", err)
		})
	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		return nil, fmt.Errorf("cannot connect to mqtt broker %s: %w", cfg.Broker, token.Error())
	}
	logger.Infof("MQTT connected to %s, publishing on %s", cfg.Broker, cfg.Topic)
	return &mqttPublisher{client: client, topic: cfg.Topic}, nil
}

func (p *mqttPublisher) Publish(r weather_station.Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("mqtt publish timed out")
	}
	return token.Error()
}

func (p *mqttPublisher) Close() {
	p.client.Disconnect(250)
}

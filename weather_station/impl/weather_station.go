package impl

import (
	"net/http"
	"sync"
	"time"

	"github.com/evkuzin/weatherdash/config"
	"github.com/evkuzin/weatherdash/metrics"
	"github.com/evkuzin/weatherdash/storage"
	"github.com/evkuzin/weatherdash/weather_station"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type pageResponse struct {
	body []byte
	err  error
}

// pageRequest is a dashboard request waiting to be rendered by the loop.
type pageRequest struct {
	reply chan pageResponse
}

// weatherStationImpl owns the snapshot and runs the read/render cycle.
// Everything that reads or writes the snapshot runs on the Start goroutine;
// HTTP and Telegram requests are handed over to it through channels.
type weatherStationImpl struct {
	sensor   weather_station.Sensor
	display  weather_station.Display
	logger   *logrus.Logger
	stop     chan struct{}
	wg       *sync.WaitGroup
	Storage  storage.Adapter
	metrics  *metrics.Metrics
	interval time.Duration
	requests chan pageRequest
	router   *mux.Router
	render   func(weather_station.Reading) ([]byte, error)

	tg      messenger
	updates tgbotapi.UpdatesChannel
	mqtt    publisher
}

func (ws *weatherStationImpl) Init(config *config.Config, logger *logrus.Logger) error {
	ws.logger = logger
	ws.interval = config.Interval

	sensor, err := weather_station.OpenSensor(config.Sensor, logger)
	if err != nil {
		return err
	}
	ws.sensor = sensor

	display, err := weather_station.OpenDisplay(config.Display, logger)
	if err != nil {
		ws.halt()
		return err
	}
	ws.display = display

	if config.Telegram.Enable {
		if err := ws.telegramInit(config); err != nil {
			ws.halt()
			return err
		}
	}
	if config.MQTT.Enable {
		p, err := newMQTTPublisher(config.MQTT, logger)
		if err != nil {
			ws.halt()
			return err
		}
		ws.mqtt = p
	}
	return nil
}

// Start is the main daemon loop. It returns once the stop channel is closed.
func (ws *weatherStationImpl) Start() {
	defer ws.wg.Done()
	defer ws.halt()
	ws.logger.Info("Weather station starting...")

	for {
		ws.servicePending()
		ws.readSensor()
		ws.renderDisplay()
		ws.publish()
		if !ws.wait() {
			ws.logger.Info("Stopping weather station")
			return
		}
	}
}

// servicePending answers every request that is already waiting.
func (ws *weatherStationImpl) servicePending() {
	for {
		select {
		case req := <-ws.requests:
			ws.servePage(req)
		case upd, ok := <-ws.updates:
			if !ok {
				ws.updates = nil
				continue
			}
			ws.answer(upd)
		default:
			return
		}
	}
}

// wait blocks for one interval, answering requests as they arrive. It
// reports false when the station has been asked to stop.
func (ws *weatherStationImpl) wait() bool {
	timer := time.NewTimer(ws.interval)
	defer timer.Stop()
	for {
		select {
		case <-ws.stop:
			return false
		case <-timer.C:
			return true
		case req := <-ws.requests:
			ws.servePage(req)
		case upd, ok := <-ws.updates:
			if !ok {
				ws.updates = nil
				continue
			}
			ws.answer(upd)
		}
	}
}

func (ws *weatherStationImpl) readSensor() {
	reading, err := ws.sensor.Sense()
	if err != nil {
		ws.logger.Debugf("sensor error: %v", err)
		reading = weather_station.InvalidReading()
	}
	if !ws.Storage.Put(reading) {
		ws.logger.Warnf("Failed to read from sensor, keeping %.2fC %.2f%%",
			ws.Storage.Get().Temperature, ws.Storage.Get().Humidity)
		ws.metrics.ObserveRead(false, 0, 0)
		return
	}
	ws.logger.Debugf("Temperature: %.2fC Humidity: %.2f%%", reading.Temperature, reading.Humidity)
	ws.metrics.ObserveRead(true, reading.Temperature, reading.Humidity)
}

func (ws *weatherStationImpl) renderDisplay() {
	if err := ws.display.Clear(); err != nil {
		ws.logger.Warnf("cannot clear display: %s", err)
		return
	}
	for i, line := range DisplayLines(ws.Storage.Get()) {
		if err := ws.display.Print(i, line); err != nil {
			ws.logger.Warnf("cannot write display line %d: %s", i, err)
			return
		}
	}
}

func (ws *weatherStationImpl) publish() {
	if ws.mqtt == nil {
		return
	}
	reading := ws.Storage.Get()
	if !reading.Valid() {
		return
	}
	if err := ws.mqtt.Publish(reading); err != nil {
		ws.logger.Warnf("cannot publish reading: %s", err)
	}
}

func (ws *weatherStationImpl) servePage(req pageRequest) {
	body, err := ws.render(ws.Storage.Get())
	ws.metrics.ObserveRequest(err == nil)
	req.reply <- pageResponse{body: body, err: err}
}

func (ws *weatherStationImpl) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws.router.ServeHTTP(w, r)
}

func (ws *weatherStationImpl) MetricsHandler() http.Handler {
	return ws.metrics.Handler()
}

func (ws *weatherStationImpl) dashboard(w http.ResponseWriter, r *http.Request) {
	req := pageRequest{reply: make(chan pageResponse, 1)}
	select {
	case ws.requests <- req:
	case <-r.Context().Done():
		return
	case <-ws.stop:
		http.Error(w, "weather station is stopping", http.StatusServiceUnavailable)
		return
	}

	var resp pageResponse
	select {
	case resp = <-req.reply:
	case <-r.Context().Done():
		return
	}
	if resp.err != nil {
		ws.logger.Errorf("Unable to render page. %v", resp.err)
		http.Error(w, "cannot render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.body); err != nil {
		ws.logger.Debugf("cannot write page: %s", err)
	}
}

func (ws *weatherStationImpl) halt() {
	if ws.sensor != nil {
		if err := ws.sensor.Halt(); err != nil {
			ws.logger.Warnf("Error during shutdown sensor: %v", err)
		}
	}
	if ws.display != nil {
		if err := ws.display.Halt(); err != nil {
			ws.logger.Warnf("Error during shutdown display: %v", err)
		}
	}
	if bot, ok := ws.tg.(*tgbotapi.BotAPI); ok {
		bot.StopReceivingUpdates()
	}
	if ws.mqtt != nil {
		ws.mqtt.Close()
	}
}

// NewWeatherStation return a new instance of a WeatherStation daemon.
// Closing stop makes Start return; Start calls wg.Done on exit.
func NewWeatherStation(stop chan struct{}, wg *sync.WaitGroup) weather_station.WeatherStation {
	ws := &weatherStationImpl{
		stop:     stop,
		wg:       wg,
		Storage:  storage.NewStorage(),
		metrics:  metrics.NewMetrics(),
		interval: config.DefaultInterval,
		requests: make(chan pageRequest),
		render:   RenderPage,
		logger:   logrus.StandardLogger(),
	}
	ws.router = mux.NewRouter()
	ws.router.HandleFunc("/", ws.dashboard).Methods(http.MethodGet)
	return ws
}

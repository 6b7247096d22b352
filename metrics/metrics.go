package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	temperature  prometheus.Gauge
	humidity     prometheus.Gauge
	sensorReads  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "weatherstation_temperature_celsius",
			Help: "Last valid temperature reading.",
		}),
		humidity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "weatherstation_humidity_percent",
			Help: "Last valid relative humidity reading.",
		}),
		sensorReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weatherstation_sensor_reads_total",
			Help: "Sensor reads by result (ok, invalid).",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weatherstation_http_requests_total",
			Help: "Dashboard requests by result (ok, error).",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.temperature,
		m.humidity,
		m.sensorReads,
		m.httpRequests,
	)
	return m
}

// ObserveRead records one sensor read. Gauges only move on valid reads.
func (m *Metrics) ObserveRead(ok bool, temperature, humidity float64) {
	if !ok {
		m.sensorReads.WithLabelValues("invalid").Inc()
		return
	}
	m.sensorReads.WithLabelValues("ok").Inc()
	m.temperature.Set(temperature)
	m.humidity.Set(humidity)
}

func (m *Metrics) ObserveRequest(ok bool) {
	if !ok {
		m.httpRequests.WithLabelValues("error").Inc()
		return
	}
	m.httpRequests.WithLabelValues("ok").Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

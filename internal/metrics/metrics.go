package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// HTTP server
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Filter outcomes
	AuthDecisions     *prometheus.CounterVec
	GeofenceDecisions *prometheus.CounterVec

	// Outbound
	SiblingRequests *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whatsapp_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "whatsapp_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whatsapp_auth_decisions_total",
				Help: "Authentication filter outcomes",
			},
			[]string{"outcome"},
		),
		GeofenceDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whatsapp_geofence_decisions_total",
				Help: "Geofence filter outcomes",
			},
			[]string{"outcome"},
		),
		SiblingRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whatsapp_sibling_requests_total",
				Help: "Requests sent to sibling services",
			},
			[]string{"service", "status"},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whatsapp_events_published_total",
				Help: "Events handed to the event bus",
			},
			[]string{"result"},
		),
	}
}

// NewRegistry creates a registry with the Go and process collectors plus the
// service metrics.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg, NewMetrics(reg)
}

func HandlerFor(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) AuthDecision(outcome string) {
	if m == nil {
		return
	}
	m.AuthDecisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) GeofenceDecision(outcome string) {
	if m == nil {
		return
	}
	m.GeofenceDecisions.WithLabelValues(outcome).Inc()
}

// SiblingRequest records one outbound call; status 0 means a transport failure.
func (m *Metrics) SiblingRequest(service string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.SiblingRequests.WithLabelValues(service, label).Inc()
}

func (m *Metrics) EventPublished(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(result).Inc()
}

// Package metrics exposes Prometheus HTTP and business metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector of the API, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business
	UsersRegistered  *prometheus.CounterVec
	LoginFailures    prometheus.Counter
	RatingsSubmitted *prometheus.CounterVec
	RatingsUpdated   prometheus.Counter
	StoresCreated    prometheus.Counter
	StoresDeleted    prometheus.Counter
}

// New creates the collectors under namespace, plus the Go and process collectors.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		UsersRegistered: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "users_registered_total",
				Help:      "Accounts created, by role",
			},
			[]string{"role"},
		),
		LoginFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_failures_total",
				Help:      "Rejected login attempts",
			},
		),
		RatingsSubmitted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ratings_submitted_total",
				Help:      "Ratings submitted, by star value",
			},
			[]string{"stars"},
		),
		RatingsUpdated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ratings_updated_total",
				Help:      "Ratings modified by their submitter",
			},
		),
		StoresCreated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stores_created_total",
				Help:      "Stores created by admins or owners",
			},
		),
		StoresDeleted: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stores_deleted_total",
				Help:      "Stores deleted by admins",
			},
		),
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records count, latency and in-flight requests. The path label is the
// route pattern, so ids do not explode the cardinality.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// UserRegistered counts a new account.
func (m *Metrics) UserRegistered(role string) {
	if m == nil {
		return
	}
	m.UsersRegistered.WithLabelValues(role).Inc()
}

// LoginFailed counts a rejected login.
func (m *Metrics) LoginFailed() {
	if m == nil {
		return
	}
	m.LoginFailures.Inc()
}

// RatingSubmitted counts a new rating with its star value.
func (m *Metrics) RatingSubmitted(stars int) {
	if m == nil {
		return
	}
	m.RatingsSubmitted.WithLabelValues(strconv.Itoa(stars)).Inc()
}

// RatingUpdated counts a modified rating.
func (m *Metrics) RatingUpdated() {
	if m == nil {
		return
	}
	m.RatingsUpdated.Inc()
}

// StoreCreated counts a new store.
func (m *Metrics) StoreCreated() {
	if m == nil {
		return
	}
	m.StoresCreated.Inc()
}

// StoreDeleted counts a removed store.
func (m *Metrics) StoreDeleted() {
	if m == nil {
		return
	}
	m.StoresDeleted.Inc()
}

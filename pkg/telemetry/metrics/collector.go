package metrics

import (
	"strconv"
	"time"

	"studysharper/flashgate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector records proxy and backend metrics on its own registry.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	backendErrors   *prometheus.CounterVec
	backendUp       prometheus.Gauge
	probeDuration   prometheus.Gauge
}

// NewCollector creates a collector and registers its metrics, plus the Go
// runtime and process collectors, with registry. A nil registry gets a
// fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := *cfg
	if c.Namespace == "" {
		c.Namespace = config.DefaultMetricsNamespace
	}
	if c.Subsystem == "" {
		c.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(c.RequestDurationBuckets) == 0 {
		c.RequestDurationBuckets = config.DefaultDurationBuckets
	}

	col := &Collector{
		config:   &c,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: c.Namespace,
				Subsystem: c.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of proxied requests by route, method and response code",
			},
			[]string{"route", "method", "code"},
		),

		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: c.Namespace,
				Subsystem: c.Subsystem,
				Name:      "rejections_total",
				Help:      "Requests answered by the proxy without contacting the backend",
			},
			[]string{"route", "reason"},
		),

		backendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: c.Namespace,
				Subsystem: c.Subsystem,
				Name:      "backend_request_duration_seconds",
				Help:      "Duration of backend round trips in seconds",
				Buckets:   c.RequestDurationBuckets,
			},
			[]string{"route"},
		),

		backendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: c.Namespace,
				Subsystem: c.Subsystem,
				Name:      "backend_errors_total",
				Help:      "Backend failures by route and kind (transport, status)",
			},
			[]string{"route", "kind"},
		),

		backendUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: c.Namespace,
				Subsystem: c.Subsystem,
				Name:      "backend_up",
				Help:      "Whether the last backend health probe succeeded (1) or not (0)",
			},
		),

		probeDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: c.Namespace,
				Subsystem: c.Subsystem,
				Name:      "backend_probe_duration_seconds",
				Help:      "Duration of the last backend health probe in seconds",
			},
		),
	}

	registry.MustRegister(
		col.requestsTotal,
		col.rejectionsTotal,
		col.backendDuration,
		col.backendErrors,
		col.backendUp,
		col.probeDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return col
}

// Registry returns the registry metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRequest records an answered inbound request.
func (c *Collector) ObserveRequest(route, method string, code int) {
	c.requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
}

// ObserveRejection records a request answered without a backend call.
func (c *Collector) ObserveRejection(route, reason string) {
	c.rejectionsTotal.WithLabelValues(route, reason).Inc()
}

// ObserveBackend records one backend round trip. A non-nil err is a
// transport failure; otherwise a non-2xx status counts as a status error.
func (c *Collector) ObserveBackend(route string, status int, duration time.Duration, err error) {
	c.backendDuration.WithLabelValues(route).Observe(duration.Seconds())

	switch {
	case err != nil:
		c.backendErrors.WithLabelValues(route, "transport").Inc()
	case status < 200 || status > 299:
		c.backendErrors.WithLabelValues(route, "status").Inc()
	}
}

// ObserveProbe records the outcome of a backend health probe.
func (c *Collector) ObserveProbe(healthy bool, duration time.Duration) {
	if healthy {
		c.backendUp.Set(1)
	} else {
		c.backendUp.Set(0)
	}
	c.probeDuration.Set(duration.Seconds())
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanderly-dev/storefront/internal/guard"
)

// Metrics holds the storefront's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ProxyRequestsTotal  *prometheus.CounterVec
	ProxyDuration       *prometheus.HistogramVec
	GuardDecisionsTotal *prometheus.CounterVec
	BackendUp           prometheus.Gauge
	BackendProbeLatency prometheus.Histogram
}

// New creates and registers all collectors
func New() *Metrics {
	buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latency",
				Buckets: buckets,
			},
			[]string{"method", "route"},
		),
		ProxyRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_proxy_requests_total",
				Help: "Requests relayed to the backend API, by backend status",
			},
			[]string{"method", "status"},
		),
		ProxyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_proxy_duration_seconds",
				Help:    "Latency of relayed backend calls",
				Buckets: buckets,
			},
			[]string{"method"},
		),
		GuardDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_guard_decisions_total",
				Help: "Route guard decisions by route category",
			},
			[]string{"category", "decision"},
		),
		BackendUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_backend_up",
			Help: "1 when the last backend probe succeeded, 0 otherwise",
		}),
		BackendProbeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_backend_probe_duration_seconds",
			Help:    "Latency of backend reachability probes",
			Buckets: buckets,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ProxyRequestsTotal,
		m.ProxyDuration,
		m.GuardDecisionsTotal,
		m.BackendUp,
		m.BackendProbeLatency,
	)

	return m
}

// ObserveProxy implements proxy.Observer
func (m *Metrics) ObserveProxy(method string, status int, duration time.Duration) {
	m.ProxyRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.ProxyDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveGuardDecision implements guard.Observer
func (m *Metrics) ObserveGuardDecision(category guard.Category, decision guard.Decision) {
	m.GuardDecisionsTotal.WithLabelValues(category.String(), decision.String()).Inc()
}

// ObserveBackendProbe implements probe.Observer
func (m *Metrics) ObserveBackendProbe(up bool, duration time.Duration) {
	if up {
		m.BackendUp.Set(1)
	} else {
		m.BackendUp.Set(0)
	}
	m.BackendProbeLatency.Observe(duration.Seconds())
}

// Middleware records request counts and latency by route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

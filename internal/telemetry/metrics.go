package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch results recorded by ObserveFetch.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultNotFound = "not_found"
)

// Metrics holds the Prometheus collectors of the storefront.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	catalogFetches  *prometheus.CounterVec
	catalogLatency  *prometheus.HistogramVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates a registry with process and Go collectors plus the
// storefront collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		catalogFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "catalog_fetch_total",
			Help:      "Catalog reads by operation and result.",
		}, []string{"op", "result"}),
		catalogLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "catalog_fetch_duration_seconds",
			Help:      "Latency of catalog reads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.catalogFetches, m.catalogLatency, m.requestDuration)

	return m
}

// ObserveFetch records one catalog read.
func (m *Metrics) ObserveFetch(op, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.catalogFetches.WithLabelValues(op, result).Inc()
	m.catalogLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records the application's operational metrics.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   prometheus.Histogram
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
	generations   *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentdee_http_requests_total",
			Help: "HTTP responses by status code",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contentdee_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contentdee_registrations_total",
			Help: "Successful account registrations",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentdee_logins_total",
			Help: "Login attempts by method and outcome",
		}, []string{"method", "outcome"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentdee_generations_total",
			Help: "Content generation requests by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.registrations,
		c.logins,
		c.generations,
	)

	return c
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

func (c *Collector) RecordLogin(method string, success bool) {
	c.logins.WithLabelValues(method, outcome(success)).Inc()
}

func (c *Collector) RecordGeneration(success bool) {
	c.generations.WithLabelValues(outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Handler exposes the registry for scraping.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

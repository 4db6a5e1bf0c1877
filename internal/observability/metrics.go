package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	LoginAttemptsTotal  *prometheus.CounterVec

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wanderlist_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wanderlist_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		LoginAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wanderlist_login_attempts_total",
			Help: "Credential exchange attempts by outcome",
		}, []string{"outcome"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.HTTPRequestsTotal, m.HTTPRequestDuration, m.LoginAttemptsTotal)
	return m
}

// Handler serves the /metrics endpoint from the private registry.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

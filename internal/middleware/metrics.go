package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zefast/zefast_web/internal/httperr"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "code"},
	)

	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	requestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

var unmeteredPrefixes = []string{"/healthz", "/metrics"}

func metered(path string) bool {
	for _, p := range unmeteredPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// Metrics records request count, latency and in-flight requests. The path
// label is the matched route pattern, so /phones/12 and /phones/13 share a series.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !metered(c.Path()) {
			return c.Next()
		}
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = httperr.Status(err)
		}
		path := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			path = r.Path
		}
		code := strconv.Itoa(status)
		requestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(c.Method(), path, code).Inc()
		return err
	}
}

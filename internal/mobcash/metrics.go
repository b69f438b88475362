package mobcash

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mobcash_request_duration_seconds",
			Help:    "Duration of mobcash backend requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"method", "route", "code"},
	)

	upstreamTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mobcash_requests_total",
			Help: "Total number of mobcash backend requests",
		},
		[]string{"method", "route", "code"},
	)
)

func observeUpstream(method, route, code string, elapsed time.Duration) {
	upstreamDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
	upstreamTotal.WithLabelValues(method, route, code).Inc()
}

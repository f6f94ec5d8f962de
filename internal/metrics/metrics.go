package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptgate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	QuotaDecrementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "promptgate_quota_decrements_total",
			Help: "Total number of consumed API calls",
		},
	)

	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgate_generations_total",
			Help: "Upstream text generation calls by result",
		},
		[]string{"result"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "promptgate_generation_duration_seconds",
			Help:    "Upstream text generation latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	UsageTrackingFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "promptgate_usage_tracking_failures_total",
			Help: "Requests rejected because the usage counter could not be updated",
		},
	)
)

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	simRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telecomlab_simulation_runs_total",
		Help: "Completed simulation runs by modulation scheme.",
	}, []string{"modulation"})

	requestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telecomlab_request_errors_total",
		Help: "Failed API requests by endpoint.",
	}, []string{"endpoint"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "telecomlab_request_duration_seconds",
		Help:    "API request latency by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

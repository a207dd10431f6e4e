// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spot_store_query_duration_seconds",
			Help:    "Duration of spot store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spot_store_query_errors_total",
			Help: "Total number of spot store query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upstream Fetch Metrics
	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Duration of upstream feed fetches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	UpstreamFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fetch_errors_total",
			Help: "Total number of failed upstream fetches",
		},
		[]string{"source", "kind"}, // "network", "status", "decode", "circuit_open"
	)

	// Ingest Metrics
	IngestRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_records_total",
			Help: "Total number of upstream records handled, by result",
		},
		[]string{"source", "result"}, // "upserted", "parse_failed", "store_failed"
	)

	IngestCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_cycles_total",
			Help: "Total number of poll cycles, by outcome",
		},
		[]string{"source", "outcome"}, // "success", "partial", "failed"
	)

	IngestLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ingest_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last poll cycle that fetched successfully",
		},
		[]string{"source"},
	)

	// Sweep Metrics
	SpotsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spots_swept_total",
			Help: "Total number of expired spots removed by the sweeper",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sweep_duration_seconds",
			Help:    "Duration of expired-spot sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SweepErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_errors_total",
			Help: "Total number of failed sweeps",
		},
	)

	// Self-Spot Metrics
	SelfSpots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "self_spots_total",
			Help: "Total number of self-spot submissions, by result",
		},
		[]string{"result"}, // "created", "duplicate", "rejected", "error"
	)

	// Auth Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts, by method and result",
		},
		[]string{"method", "result"}, // method: "jwt", "admin_token"; result: "success", "failure", "forbidden"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// maxErrorLabelLen bounds the error_type label to keep cardinality sane.
const maxErrorLabelLen = 50

// RecordDBQuery records a store query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > maxErrorLabelLen {
			errorType = errorType[:maxErrorLabelLen]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts one rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordFetch records one upstream fetch. kind is empty on success.
func RecordFetch(source string, duration time.Duration, kind string) {
	UpstreamFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if kind != "" {
		UpstreamFetchErrors.WithLabelValues(source, kind).Inc()
	}
}

// RecordIngestCycle records the per-record results of one poll cycle and
// classifies the cycle as success, partial or failed.
func RecordIngestCycle(source string, fetchFailed bool, upserted, parseFailures, storeFailures int) {
	if fetchFailed {
		IngestCycles.WithLabelValues(source, "failed").Inc()
		return
	}

	IngestRecords.WithLabelValues(source, "upserted").Add(float64(upserted))
	IngestRecords.WithLabelValues(source, "parse_failed").Add(float64(parseFailures))
	IngestRecords.WithLabelValues(source, "store_failed").Add(float64(storeFailures))

	outcome := "success"
	if parseFailures > 0 || storeFailures > 0 {
		outcome = "partial"
	}
	IngestCycles.WithLabelValues(source, outcome).Inc()
	IngestLastSuccess.WithLabelValues(source).Set(float64(time.Now().Unix()))
}

// RecordSweep records one sweep pass.
func RecordSweep(duration time.Duration, removed int64, err error) {
	SweepDuration.Observe(duration.Seconds())
	if err != nil {
		SweepErrors.Inc()
		return
	}
	SpotsSwept.Add(float64(removed))
}

// RecordSelfSpot counts one self-spot submission outcome.
func RecordSelfSpot(result string) {
	SelfSpots.WithLabelValues(result).Inc()
}

// RecordAuthAttempt counts one authentication decision.
func RecordAuthAttempt(method, result string) {
	AuthAttempts.WithLabelValues(method, result).Inc()
}

// RecordBreakerState publishes a breaker's state and counts the transition.
func RecordBreakerState(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	if to == "closed" {
		CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
	}
}

// RecordBreakerRequest counts one call through a breaker.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SetBreakerConsecutiveFailures publishes the current failure streak.
func SetBreakerConsecutiveFailures(name string, n uint32) {
	CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(n))
}

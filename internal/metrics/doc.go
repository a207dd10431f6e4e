// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

/*
Package metrics provides Prometheus metrics for Spotwire.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

Store:
  - spot_store_query_duration_seconds{operation,table}
  - spot_store_query_errors_total{operation,table,error_type}

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Ingest:
  - upstream_fetch_duration_seconds{source}
  - upstream_fetch_errors_total{source,kind}
  - ingest_records_total{source,result}
  - ingest_cycles_total{source,outcome}
  - ingest_last_success_timestamp_seconds{source}

Lifecycle:
  - spots_swept_total, sweep_duration_seconds, sweep_errors_total
  - self_spots_total{result}

Circuit breakers (one per upstream source):
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_transitions_total{name,from_state,to_state}

# Usage

	start := time.Now()
	n, err := db.DeleteExpiredSpots(ctx)
	metrics.RecordSweep(time.Since(start), n, err)

# Example PromQL

	# Sources that have not fetched in 5 minutes
	time() - ingest_last_success_timestamp_seconds > 300

	# Parse failure rate per source
	rate(ingest_records_total{result="parse_failed"}[5m])

# Thread Safety

All functions are safe for concurrent use.
*/
package metrics

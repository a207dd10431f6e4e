// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

/*
Package sync ingests spots from the upstream feeds.

Pipeline, per source and per tick:

 1. Fetch: Client.FetchRaw performs one GET and splits the body into raw
    records without decoding them
 2. Normalize: the source's NormalizeFunc turns each record into a
    models.Spot (kHz, UTC) or a *ParseError
 3. Store: each spot is upserted by (source, external_id)

A bad record is skipped and counted; a failed fetch ends the cycle. Neither
stops the loop. The Sweeper runs on its own period and deletes expired rows.

Feeds:

  - pota: bare array, kHz string frequency, naive UTC spotTime, expire in
    seconds (default window 30m), locationDesc "US-ME"
  - rbn: {"spots": [...]}, numeric kHz, RFC 3339 timestamp, fixed 10m window
  - sota: bare array, MHz string frequency, callsign is the spotter and
    activatorCallsign the activator, reference associationCode/summitCode,
    fixed 30m window from timeStamp

Resilience:

Every Client shares one *http.Client and owns a gobreaker circuit breaker
and an x/time/rate limiter. Breaker state and fetch outcomes are exported
through internal/metrics.

Poller and Sweeper expose RunWithContext; internal/supervisor wraps them as
suture services.
*/
package sync

// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/spotwire/internal/config"
	"github.com/tomtom215/spotwire/internal/logging"
	"github.com/tomtom215/spotwire/internal/metrics"
	"github.com/tomtom215/spotwire/internal/models"
)

// maxErrorBodySize limits how much of an error response is kept for logs.
const maxErrorBodySize = 64 * 1024

// maxFeedBodySize bounds a successful feed response.
const maxFeedBodySize = 16 * 1024 * 1024

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "\n... (truncated)"
	}
	return string(body)
}

// Fetcher returns the raw records of one upstream poll.
type Fetcher interface {
	FetchRaw(ctx context.Context) ([]json.RawMessage, error)
}

// NewHTTPClient builds the single outbound client shared by every source.
func NewHTTPClient(cfg *config.UpstreamConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// Client fetches one upstream feed through a circuit breaker and a
// politeness limiter.
//
// The breaker uses real time for its interval and timeout. Tests exercise
// it by driving failures through a mock feed, not by faking the clock.
type Client struct {
	source    models.SpotSource
	url       string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[[]json.RawMessage]
	name      string
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a client for source. httpClient is shared; a nil value
// builds one from cfg.
func NewClient(source models.SpotSource, url string, httpClient *http.Client, cfg *config.UpstreamConfig) (*Client, error) {
	if !source.IsUpstream() {
		return nil, fmt.Errorf("source %q is not an upstream feed", source)
	}
	if url == "" {
		return nil, fmt.Errorf("%s feed URL is empty", source)
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg)
	}

	c := &Client{
		source:    source,
		url:       url,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		name:      string(source) + "-feed",
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	c.breaker = newBreaker(c.name, cfg)
	return c, nil
}

// newBreaker builds a per-source breaker. It opens when the failure ratio
// reaches cfg.BreakerFailureRatio over at least cfg.BreakerMinRequests calls.
func newBreaker(name string, cfg *config.UpstreamConfig) *gobreaker.CircuitBreaker[[]json.RawMessage] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(gobreaker.StateClosed))
	metrics.SetBreakerConsecutiveFailures(name, 0)

	return gobreaker.NewCircuitBreaker[[]json.RawMessage](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.BreakerFailureRatio
			if shouldTrip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordBreakerState(name, fromStr, toStr, stateToFloat(to))
		},

		// Shutdown is not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// Source returns the feed this client polls.
func (c *Client) Source() models.SpotSource {
	return c.source
}

// FetchRaw performs one GET and returns the feed's records undecoded, so a
// malformed record cannot fail the batch. Errors are *FetchError.
func (c *Client) FetchRaw(ctx context.Context) ([]json.RawMessage, error) {
	start := time.Now()
	records, err := c.breaker.Execute(func() ([]json.RawMessage, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerRequest(c.name, "rejected")
			err = &FetchError{Source: c.source, Kind: FetchCircuitOpen, Err: err}
		} else {
			metrics.RecordBreakerRequest(c.name, "failure")
			metrics.SetBreakerConsecutiveFailures(c.name, c.breaker.Counts().ConsecutiveFailures)
		}

		kind := FetchNetwork
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			kind = fetchErr.Kind
		}
		metrics.RecordFetch(string(c.source), time.Since(start), string(kind))
		return nil, err
	}

	metrics.RecordBreakerRequest(c.name, "success")
	metrics.SetBreakerConsecutiveFailures(c.name, 0)
	metrics.RecordFetch(string(c.source), time.Since(start), "")
	return records, nil
}

func (c *Client) fetch(ctx context.Context) ([]json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Source: c.source, Kind: FetchNetwork, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, &FetchError{Source: c.source, Kind: FetchNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Source: c.source, Kind: FetchNetwork, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Str("source", string(c.source)).Msg("Failed to close feed response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Source:     c.source,
			Kind:       FetchStatus,
			StatusCode: resp.StatusCode,
			Body:       readBodyForError(resp.Body),
		}
	}

	records, err := decodeEnvelope(c.source, io.LimitReader(resp.Body, maxFeedBodySize))
	if err != nil {
		return nil, &FetchError{Source: c.source, Kind: FetchDecode, Err: err}
	}
	return records, nil
}

// decodeEnvelope splits a feed body into records. The beacon feed wraps its
// list in an object; the others return a bare array.
func decodeEnvelope(source models.SpotSource, r io.Reader) ([]json.RawMessage, error) {
	dec := json.NewDecoder(r)
	if source == models.SourceRBN {
		var env rbnEnvelope
		if err := dec.Decode(&env); err != nil {
			return nil, err
		}
		return env.Spots, nil
	}
	var records []json.RawMessage
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

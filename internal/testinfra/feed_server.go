// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package testinfra

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// FeedRequest is one captured request to a MockFeedServer.
type FeedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
}

// MockFeedServer stands in for an upstream spot feed. It serves a
// configurable JSON body and records every request it receives.
type MockFeedServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []FeedRequest
	status   int
	body     []byte
	handler  http.HandlerFunc
}

// NewMockFeedServer starts a feed server answering 200 with body. The
// server is closed when the test completes.
func NewMockFeedServer(t *testing.T, body []byte) *MockFeedServer {
	t.Helper()

	m := &MockFeedServer{status: http.StatusOK, body: body}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, FeedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.RawQuery,
			Headers: r.Header.Clone(),
		})
		status, payload, fn := m.status, m.body, m.handler
		m.mu.Unlock()

		if fn != nil {
			fn(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(payload) //nolint:errcheck
	}))
	t.Cleanup(m.Server.Close)

	return m
}

// URL returns the feed URL.
func (m *MockFeedServer) URL() string {
	return m.Server.URL
}

// SetResponse replaces the canned status and body.
func (m *MockFeedServer) SetResponse(status int, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.body = body
}

// SetHandler makes fn answer every request instead of the canned body.
func (m *MockFeedServer) SetHandler(fn http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
}

// Requests returns a copy of all captured requests.
func (m *MockFeedServer) Requests() []FeedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]FeedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns how many requests were received.
func (m *MockFeedServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// WaitForRequests waits until at least n requests arrive or timeout passes.
func (m *MockFeedServer) WaitForRequests(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if m.RequestCount() >= n {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return m.RequestCount() >= n
}

// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

// Package testinfra provides test infrastructure shared by package tests.
//
// # Mock Feeds
//
// MockFeedServer is an httptest server that plays the part of an upstream
// spot feed. It is available to ordinary unit tests:
//
//	feed := testinfra.NewMockFeedServer(t, []byte(`[{"spotId": 1, ...}]`))
//	client := sync.NewClient(models.SourcePOTA, feed.URL(), httpClient, upstreamCfg)
//
// # Containers
//
// Files behind the integration build tag use testcontainers-go to start a
// real PostgreSQL server so the postgres dialect of the spot store can be
// exercised end to end:
//
//	go test -tags integration ./internal/database/...
//
// Tests call SkipIfNoDocker first so they degrade gracefully on machines
// without a Docker daemon.
package testinfra

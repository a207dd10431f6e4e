// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

// Package services adapts Spotwire components to suture.Service.
//
//   - RunnerService: pollers and the sweeper (RunWithContext loops)
//   - HTTPServerService: *http.Server with graceful drain
package services

// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

// Package spots is the read and submit side of the spot directory.
//
//   - QueryEngine clamps list requests, applies filters and computes the
//     descending timestamp cursor
//   - SelfSpotGate checks that a program exists, is active and allows
//     self-spotting
//   - Service is the facade the HTTP layer calls
package spots

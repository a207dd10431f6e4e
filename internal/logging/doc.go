// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

// Package logging provides centralized zerolog-based logging for Spotwire.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("source", "pota").Int("upserted", n).Msg("Poll cycle complete")
//	logging.Error().Err(err).Msg("Sweep failed")
//
// # Context
//
// HTTP handlers carry a request_id and ingest cycles carry a cycle_id. Both are
// attached automatically by Ctx:
//
//	logging.Ctx(ctx).Debug().Msg("Duplicate self-spot rejected")
//
// # slog Bridge
//
// NewSlogLogger returns an *slog.Logger that writes through zerolog. The
// supervisor tree hands it to sutureslog so restart and backoff events share
// the application log stream.
//
// # Configuration
//
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
//
// Always terminate log chains with .Msg() or .Send().
package logging

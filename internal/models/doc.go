// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

/*
Package models defines the data structures shared across Spotwire.

Key Components:

  - Spot: the canonical spot record every feed is normalized into
  - SpotSource: tag identifying the feed (pota, rbn, sota) or a self-spot
  - Program: award-program catalog entry with capability flags
  - Optional: three-state field (absent / null / value) for partial updates
  - APIResponse: standard HTTP envelope

Units and clocks:

All frequencies are kHz (float64) and all timestamps are UTC. Conversion from
upstream units happens once, in the normalizers, so nothing downstream of
ingestion needs to know which feed a spot came from.

Errors:

Domain rejections are typed (ProgramNotFoundError, CapabilityNotSupportedError,
SpotNotFoundError, ValidationError) or sentinel (ErrDuplicateSelfSpot) so the
HTTP layer can map them to stable codes with errors.As / errors.Is.
*/
package models

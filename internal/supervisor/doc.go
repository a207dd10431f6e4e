// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

/*
Package supervisor runs Spotwire's long-lived work under suture v4.

	RootSupervisor ("spotwire")
	├── IngestSupervisor ("ingest-layer")
	│   ├── pota-poller   (if POTA_AGGREGATOR_ENABLED)
	│   ├── rbn-poller    (if RBN_AGGREGATOR_ENABLED)
	│   ├── sota-poller   (if SOTA_AGGREGATOR_ENABLED)
	│   └── spot-sweeper
	└── APISupervisor ("api-layer")
	    └── http-server

The ingest layer is empty when SPOTS_ENABLED is false.

Each poller is its own service: a feed that keeps failing is restarted with
backoff without disturbing the other sources. Pollers already absorb
per-cycle fetch errors, so a restart only follows a panic or an
unexpected return.

Supervisor events (start, failure, backoff) are logged through
sutureslog into the zerolog pipeline; see logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddIngestService(services.NewRunnerService(poller))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor

// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

/*
Package controlapi exposes the supervisor's local control plane.

# Routes

	POST /_supervisor/webhook/update?apikey=<k>   queue an update
	GET  /_supervisor/metrics                      Prometheus exposition
	GET  /_supervisor/stream                       read-only status stream

The webhook compares apikey literally against the SUPERVISOR_API_KEY
environment variable and never blocks on the update sequence itself —
OnUpdate runs in a detached goroutine so the webhook responds before a
multi-minute deploy completes.

Server.Handler() returns a chi.Router; the bootstrap wraps it in an
*http.Server and supervises that under suture via
internal/supervisor/services.HTTPServerService.
*/
package controlapi

// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

/*
Package metrics provides Prometheus metrics collection and export for the
blue/green deployment supervisor.

# Metrics Endpoint

Metrics are exposed at /_supervisor/metrics in Prometheus text format:

	curl http://127.0.0.1:19180/_supervisor/metrics

# Available Metrics

  - supervisor_active_slot: The currently active slot, 1 or 2 (gauge)
  - supervisor_updates_total: Completed update sequences, by outcome (counter)
    Labels: outcome (success, aborted, health_check_failed)
  - supervisor_update_duration_seconds: Duration of a full update sequence (histogram)
  - supervisor_health_probe_failures_total: Failed health probe attempts (counter)
    Labels: slot
  - supervisor_update_queue_depth: Waiters currently queued behind an in-flight update (gauge)
  - supervisor_proxy_requests_total: Requests dispatched by the reverse proxy (counter)
    Labels: class (control, world)
  - supervisor_api_active_requests: In-flight control API requests (gauge)
  - supervisor_api_request_duration_seconds: Control API request duration (histogram)
    Labels: method, path, status
*/
package metrics

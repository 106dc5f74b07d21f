// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

/*
Package middleware provides HTTP middleware for the control API.

Key Components:

  - Request ID: UUID-based request tracking for distributed tracing
  - Prometheus Metrics: request/response instrumentation

Both are plain `func(http.HandlerFunc) http.HandlerFunc` wrappers rather
than chi's `func(http.Handler) http.Handler` shape; the control API
router adapts them with http.HandlerFunc conversions where it builds its
middleware chain.

Usage Example - Request ID:

	http.HandleFunc("/_supervisor/webhook/update",
	    middleware.RequestID(handler),
	)

	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := r.Context().Value(middleware.RequestIDKey).(string)
	    log.Printf("[%s] processing request", requestID)
	}

Usage Example - Prometheus Metrics:

	http.HandleFunc("/_supervisor/webhook/update",
	    middleware.PrometheusMetrics(handler),
	)

Thread Safety:

  - Request ID uses context.Context (immutable) and a UUID per request
  - Prometheus metrics use the underlying client_golang atomic counters

See Also:

  - internal/controlapi: control API handlers wrapped by this middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware

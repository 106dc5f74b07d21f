// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/metrics"
)

// knownRoutes mirrors the control API's fixed, small route set
// (internal/controlapi's webhookUpdatePath/metricsPath/streamPath).
// middleware can't import controlapi to share the constants directly —
// controlapi already imports middleware, and a back-import would cycle.
var knownRoutes = map[string]string{
	"/_supervisor/webhook/update": "webhook_update",
	"/_supervisor/metrics":        "metrics",
	"/_supervisor/stream":         "stream",
}

// routeLabel collapses a request path to one of a small fixed set of
// Prometheus label values. The control API has no user-supplied path
// segments, but an unrecognized path is still labeled "other" rather
// than passed through raw, so a scan or typo can never grow the metric's
// cardinality.
func routeLabel(path string) string {
	if label, ok := knownRoutes[path]; ok {
		return label
	}
	return "other"
}

// PrometheusMetrics creates middleware for recording Prometheus metrics
// Comprehensive API request instrumentation for Prometheus metrics
func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Track active requests
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		// Record start time
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		wrapper := &metricsResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Call next handler
		next(wrapper, r)

		// Calculate duration
		duration := time.Since(start)

		// Record metrics
		metrics.RecordAPIRequest(
			r.Method,
			routeLabel(r.URL.Path),
			strconv.Itoa(wrapper.statusCode),
			duration,
		)
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code
func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

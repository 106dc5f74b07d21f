// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveSlot reports which slot is currently receiving public
	// traffic according to the coordinator's ground truth. 0 means no
	// slot is active yet (before Startup completes).
	ActiveSlot = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supervisor_active_slot",
			Help: "Currently active slot (1 or 2), 0 if none",
		},
	)

	// UpdatesTotal counts completed update sequences by how they ended.
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supervisor_updates_total",
			Help: "Total update sequences by outcome",
		},
		[]string{"outcome"},
	)

	// UpdateDuration measures how long a full update sequence takes,
	// from entry into the critical section to the exit logic.
	UpdateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "supervisor_update_duration_seconds",
			Help:    "Duration of a full update sequence in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	// HealthProbeFailuresTotal counts individual failed health probe
	// attempts, not whole sequences.
	HealthProbeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supervisor_health_probe_failures_total",
			Help: "Total failed health probe attempts",
		},
		[]string{"slot"},
	)

	// UpdateQueueDepth tracks the number of waiters currently parked
	// behind an in-flight update.
	UpdateQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supervisor_update_queue_depth",
			Help: "Number of on_update callers waiting behind an in-flight update",
		},
	)

	// ProxyRequestsTotal counts requests dispatched by the reverse
	// proxy, split by whether they were routed to the control backend
	// or the active world backend.
	ProxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supervisor_proxy_requests_total",
			Help: "Total requests dispatched by the reverse proxy",
		},
		[]string{"class"},
	)

	// APIActiveRequests tracks in-flight control API requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supervisor_api_active_requests",
			Help: "Number of control API requests currently being handled",
		},
	)

	// APIRequestDuration measures control API request latency by
	// method, path, and response status.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supervisor_api_request_duration_seconds",
			Help:    "Control API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// TrackActiveRequest increments or decrements APIActiveRequests. Callers
// invoke it with true on request entry and false (typically via defer)
// on request exit.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAPIRequest observes one completed control API request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

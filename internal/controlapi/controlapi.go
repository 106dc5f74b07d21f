// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

// Package controlapi implements the supervisor's local-only HTTP control
// plane: the authenticated update webhook, a Prometheus metrics
// endpoint, and an optional read-only status stream.
package controlapi

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/coordinator"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/logging"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/middleware"
)

// WebhookEnvVar is the environment variable holding the required apikey
// query parameter value. It is read directly rather than through koanf:
// per the deployment contract it is ambient process environment, not
// versioned configuration.
const WebhookEnvVar = "SUPERVISOR_API_KEY"

// webhookUpdatePath, metricsPath and streamPath are full request paths,
// including the /_supervisor prefix under which the reverse proxy
// forwards requests to this API.
const (
	webhookUpdatePath = "/_supervisor/webhook/update"
	metricsPath       = "/_supervisor/metrics"
	streamPath        = "/_supervisor/stream"
)

// Coordinator is the subset of *coordinator.Coordinator the control API
// depends on.
type Coordinator interface {
	OnUpdate(ctx context.Context) error
	StatusSnapshot() coordinator.Status
	Subscribe() (<-chan coordinator.Status, func())
}

// Server holds the chi router and its collaborators. It does not own a
// listener itself — the bootstrap wraps Server.Handler() in an
// *http.Server and supervises it via services.HTTPServerService.
type Server struct {
	coord             Coordinator
	router            chi.Router
	rateLimitRequests int
	rateLimitWindow   time.Duration
	upgrader          websocket.Upgrader
}

// New constructs the control API server. rateLimitRequests/Window bound
// the webhook endpoint per source IP via go-chi/httprate.
func New(coord Coordinator, rateLimitRequests int, rateLimitWindow time.Duration) *Server {
	if rateLimitRequests <= 0 {
		rateLimitRequests = 10
	}
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}

	s := &Server{
		coord:             coord,
		rateLimitRequests: rateLimitRequests,
		rateLimitWindow:   rateLimitWindow,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream is read-only and local-only (127.0.0.1); no
			// cross-origin browser client is ever expected to connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the http.Handler to mount behind an *http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(adaptMiddleware(middleware.RequestID))
	r.Use(adaptMiddleware(middleware.PrometheusMetrics))

	r.With(httprate.Limit(s.rateLimitRequests, s.rateLimitWindow, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Post(webhookUpdatePath, s.handleWebhookUpdate)
	r.Get(metricsPath, promhttp.Handler().ServeHTTP)
	r.Get(streamPath, s.handleStream)

	return r
}

// adaptMiddleware lifts the package's func(http.HandlerFunc)
// http.HandlerFunc middleware shape to chi's func(http.Handler)
// http.Handler shape.
func adaptMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
		})
	}
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleWebhookUpdate compares the apikey query parameter literally
// against SUPERVISOR_API_KEY, then fires an unawaited OnUpdate on
// success. The handler must return before the multi-minute update
// sequence runs, so the caller only learns "queued", never the outcome.
func (s *Server) handleWebhookUpdate(w http.ResponseWriter, r *http.Request) {
	expected := os.Getenv(WebhookEnvVar)
	provided := r.URL.Query().Get("apikey")

	if expected == "" || provided == "" || provided != expected {
		writeJSON(w, http.StatusUnauthorized, webhookResponse{
			Success: false,
			Message: "Unauthorized: invalid or missing API key",
		})
		return
	}

	go func() {
		if err := s.coord.OnUpdate(context.Background()); err != nil {
			logging.Error().Err(err).Msg("controlapi: queued update failed")
		}
	}()

	writeJSON(w, http.StatusOK, webhookResponse{
		Success: true,
		Message: "Update was added to the queue and will be processed shortly.",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("controlapi: failed to write JSON response")
	}
}

// handleStream upgrades to a websocket connection and pushes a Status
// snapshot on every coordinator state transition, plus one immediately
// on connect so a client never waits for the first change.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("controlapi: websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, unsubscribe := s.coord.Subscribe()
	defer unsubscribe()

	if err := conn.WriteJSON(s.coord.StatusSnapshot()); err != nil {
		return
	}

	// The stream never accepts client commands, but a reader goroutine
	// is still required to observe the client's close frame promptly.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case status, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(status); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

// Package reverseproxy implements the public-facing layer-7 dispatcher:
// requests under /_supervisor go to the control backend, everything
// else goes to whichever world backend the update coordinator most
// recently published.
//
// The world backend is a lock-free atomic.Pointer swap: dispatch
// decisions never block on a writer, and every decision made after a
// successful SetWorldBackend observes that address or a newer one.
package reverseproxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/thejerf/suture/v4"

	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/logging"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/metrics"
)

// ControlPathPrefix is the URL path prefix routed to the control
// backend instead of the active world backend.
const ControlPathPrefix = "/_supervisor"

// Dispatcher is the public reverse proxy. It satisfies suture.Service
// via Serve.
type Dispatcher struct {
	listenAddr string

	controlUpstream string
	worldUpstream   atomic.Pointer[string]

	controlProxy *httputil.ReverseProxy
	worldProxy   *httputil.ReverseProxy

	server *http.Server
}

// New creates a Dispatcher bound to listenAddr, routing control traffic
// to controlUpstream and defaulting world traffic to initialWorld.
// initialWorld is not validated by DNS/socket resolution here — callers
// pass a static, known-good slot address (addr(1)) as the startup
// default; SetWorldBackend is what enforces the validation contract for
// every subsequent change.
func New(listenAddr, controlUpstream, initialWorld string) *Dispatcher {
	d := &Dispatcher{
		listenAddr:      listenAddr,
		controlUpstream: controlUpstream,
	}
	d.worldUpstream.Store(&initialWorld)

	d.controlProxy = &httputil.ReverseProxy{
		Director: func(r *http.Request) {
			r.URL.Scheme = "http"
			r.URL.Host = controlUpstream
			// The control API's request ID middleware trusts an
			// inbound X-Request-ID header as coming "from upstream
			// proxy" — this is that proxy, so mint one here if the
			// original caller didn't already supply one.
			if r.Header.Get("X-Request-ID") == "" {
				r.Header.Set("X-Request-ID", uuid.New().String())
			}
		},
		ErrorHandler: proxyErrorHandler("control"),
	}
	d.worldProxy = &httputil.ReverseProxy{
		Director: func(r *http.Request) {
			r.URL.Scheme = "http"
			r.URL.Host = *d.worldUpstream.Load()
		},
		ErrorHandler: proxyErrorHandler("world"),
	}

	return d
}

func proxyErrorHandler(class string) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		logging.Warn().Err(err).Str("class", class).Str("path", r.URL.Path).Msg("upstream dispatch failed")
		w.WriteHeader(http.StatusBadGateway)
	}
}

// ServeHTTP implements http.Handler, dispatching by path prefix.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, ControlPathPrefix) {
		metrics.ProxyRequestsTotal.WithLabelValues("control").Inc()
		d.controlProxy.ServeHTTP(w, r)
		return
	}

	metrics.ProxyRequestsTotal.WithLabelValues("world").Inc()
	d.worldProxy.ServeHTTP(w, r)
}

// SetWorldBackend validates addr by resolving it as a TCP address and
// then atomically stores it as the new world upstream. No request is
// ever dispatched to an address that failed this validation.
func (d *Dispatcher) SetWorldBackend(addr string) error {
	resolved, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return fmt.Errorf("reverseproxy: resolve %q: %w", addr, err)
	}
	if resolved.IP == nil && resolved.Port == 0 {
		return fmt.Errorf("reverseproxy: %q did not resolve to a usable address", addr)
	}

	d.worldUpstream.Store(&addr)
	logging.Info().Str("component", "reverseproxy").Str("world_backend", addr).Msg("world backend updated")
	return nil
}

// CurrentWorldBackend returns the currently active world backend
// address. Observational only; used by the CLI and status stream.
func (d *Dispatcher) CurrentWorldBackend() (string, bool) {
	p := d.worldUpstream.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Serve runs the accept loop until ctx is canceled or the listener
// fails fatally. It satisfies suture.Service.
func (d *Dispatcher) Serve(ctx context.Context) error {
	d.server = &http.Server{
		Addr:              d.listenAddr,
		Handler:           d,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			// An accept-loop failure is process-fatal: nothing is
			// serving public traffic anymore, so restarting siblings
			// piecemeal would just hide the outage.
			return errors.Join(fmt.Errorf("reverseproxy: accept loop failed: %w", err), suture.ErrTerminateSupervisorTree)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("reverseproxy: shutdown: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer for suture's logging.
func (d *Dispatcher) String() string {
	return "reverseproxy"
}

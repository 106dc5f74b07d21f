// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

/*
Package services provides suture.Service wrappers for the supervisor's
own long-running components.

This package adapts components with their own native lifecycle pattern
(ListenAndServe, an Accept loop, a line-reading loop) to suture v4's
context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve
  - Used for the control API; the public proxy dispatcher implements
    suture.Service directly instead, since its accept loop already
    needs custom world/control routing logic beyond a plain
    http.Server wrap.

The interactive CLI reader also implements suture.Service
directly in its own package, since its "stop supervising without being
a failure" behavior on end-of-stdin (suture.ErrDoNotRestart) doesn't fit
this package's generic wrapper shape.

# Usage Example

	httpSvc := services.NewHTTPServerService(apiServer, 10*time.Second)
	tree.AddAPIService(httpSvc)

# Lifecycle Pattern

ListenAndServe Pattern:

	type Listener interface {
	    ListenAndServe() error
	    Shutdown(ctx context.Context) error
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    go s.server.ListenAndServe()
	    <-ctx.Done()
	    return s.server.Shutdown(shutdownCtx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil       -> service stopped cleanly, will not restart
	error     -> service crashed, supervisor will restart
	ctx.Err() -> shutdown requested, normal termination

HTTPServerService joins suture.ErrTerminateSupervisorTree onto a server
failure (for example a listener that cannot bind), so that failure stops
the whole tree instead of being restarted.

# Service Identification

All services implement fmt.Stringer for logging:

	func (s *HTTPServerService) String() string {
	    return "http-server"
	}

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: underlying supervision library
*/
package services

// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

/*
Package supervisor provides process supervision for the blue/green
deployment supervisor using suture v4.

This package wires the public proxy, the local control API, and the
interactive CLI reader as three sibling services under one root
supervisor. It provides Erlang/OTP-style supervision with automatic
restart, failure isolation, and graceful shutdown.

# Overview

	RootSupervisor ("supervisor")
	├── ProxyService (public reverse-proxy accept loop)
	├── APIService   (control API accept loop)
	└── CLIService   (interactive stdin reader)

The three are true siblings, not a layered hierarchy: none depends on
another's restart policy. The CLI reaching end-of-stdin returns
suture.ErrDoNotRestart and simply stops being supervised; the proxy or
API returning a process-fatal error returns
suture.ErrTerminateSupervisorTree, which unwinds Serve and exits the
whole tree, proxy and API and CLI together.

# Usage Example

Basic setup in the bootstrap entrypoint:

	logger := slog.Default()
	config := supervisor.DefaultTreeConfig()

	tree, err := supervisor.NewSupervisorTree(logger, config)
	if err != nil {
	    log.Fatal(err)
	}

	tree.AddProxyService(dispatcher)
	tree.AddAPIService(apiServer)
	tree.AddCLIService(cliReader)

	ctx := context.Background()
	if err := tree.Serve(ctx); err != nil {
	    log.Printf("supervisor stopped: %v", err)
	}

Background operation:

	errChan := tree.ServeBackground(ctx)
	// ... signal handling, etc ...
	if err := <-errChan; err != nil {
	    log.Printf("supervisor error: %v", err)
	}

# Configuration

The TreeConfig controls restart behavior:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,              // Failures before backoff
	    FailureDecay:     30.0,             // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Default values match suture's production-ready defaults.

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: service stopped cleanly, will not be restarted
  - Return suture.ErrDoNotRestart: stop supervising, do not treat as failure
  - Return suture.ErrTerminateSupervisorTree: stop the whole tree
  - Return any other error: service crashed, will be restarted
  - Context canceled: shutdown requested, return promptly

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("service didn't stop: %v", svc)
	}

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4: underlying library
*/
package supervisor

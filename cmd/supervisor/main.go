// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

// Package main is the entry point for the blue/green deployment
// supervisor.
//
// The supervisor owns two mutually exclusive runtime slots for a
// JavaScript server application, runs exactly one as the active slot,
// and exposes a reverse proxy that forwards public traffic to the
// active slot while a private control plane triggers zero-downtime
// upgrades.
//
// # Application Architecture
//
// The process wires five components under one suture supervision tree:
//
//  1. Coordinator: serializes update requests and drives the
//     build->stage->start->health-check->flip->drain sequence.
//  2. Reverse proxy: routes /_supervisor/* to the control API and
//     everything else to the coordinator's active slot.
//  3. Control API: the authenticated webhook that enqueues updates.
//  4. CLI: an interactive stdin loop for status/update/shutdown.
//  5. Supervisor tree: stops the whole tree when the proxy or control
//     API listener fails, isolates CLI EOF from the other two, and
//     drives graceful shutdown.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, an optional YAML file, then
// built-in defaults matching the deployment contract's fixed slot
// addresses and script directory.
//
// # Signal Handling
//
// The process handles graceful shutdown on SIGINT and SIGTERM by
// canceling the root context, which stops the supervisor tree; the
// coordinator itself is torn down explicitly beforehand so in-flight
// slots are terminated and cleaned up rather than just abandoned.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/cli"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/config"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/controlapi"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/coordinator"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/logging"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/reverseproxy"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/supervisor"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	logging.Info().Msg("starting blue/green deployment supervisor")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scripts := &coordinator.ScriptDirRunner{Dir: cfg.Runtime.ScriptsDir}
	launcher := &coordinator.BunLauncher{
		BunPath:     cfg.Runtime.BunPath,
		InstanceDir: cfg.Runtime.InstanceDir,
	}
	prober := coordinator.NewHTTPHealthProber()

	proxy := reverseproxy.New(cfg.Proxy.ListenAddr, cfg.Proxy.ControlUpstream, coordinator.Slot1.Addr())

	coord := coordinator.New(scripts, launcher, prober, proxy, coordinator.Config{
		HealthProbeAttempts: cfg.Runtime.HealthProbeAttempts,
		HealthProbeInterval: cfg.Runtime.HealthProbeInterval,
		SettlingDelay:       cfg.Runtime.SettlingDelay,
	})

	// startup pulls, builds, stages, and brings up slot 1. Failure here
	// is fatal: the supervisor has nothing to serve traffic with.
	if err := coord.Startup(ctx); err != nil {
		logging.Fatal().Err(err).Msg("startup failed, supervisor exiting without an active slot")
	}

	apiServer := controlapi.New(coord, cfg.API.RateLimitRequests, cfg.API.RateLimitWindow)
	httpAPIServer := &http.Server{
		Addr:              cfg.API.ListenAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cliReader := cli.New(coord, proxy)

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Runtime.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create supervisor tree")
	}

	tree.AddProxyService(proxy)
	tree.AddAPIService(services.NewHTTPServerService(httpAPIServer, cfg.Runtime.ShutdownTimeout))
	tree.AddCLIService(cliReader)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Runtime.ShutdownTimeout)
		defer shutdownCancel()
		if err := coord.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("coordinator shutdown failed")
		}
		cancel()
	}()

	logging.Info().Str("proxy_addr", cfg.Proxy.ListenAddr).Str("api_addr", cfg.API.ListenAddr).Msg("supervisor tree starting")
	errCh := tree.ServeBackground(ctx)

	fatal := false
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			fatal = true
			logging.Error().Err(err).Msg("supervisor tree stopped with error")
		}
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
		}
	}

	logging.Info().Msg("supervisor stopped")
	if fatal {
		os.Exit(1)
	}
}

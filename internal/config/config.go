// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the supervisor's full configuration surface.
type Config struct {
	Proxy   ProxyConfig   `koanf:"proxy"`
	API     APIConfig     `koanf:"api"`
	Runtime RuntimeConfig `koanf:"runtime"`
	Log     LogConfig     `koanf:"log"`
}

// ProxyConfig configures the public reverse proxy.
type ProxyConfig struct {
	// ListenAddr is the public-facing TCP address the proxy binds to.
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`

	// ControlUpstream is the fixed local control API address.
	ControlUpstream string `koanf:"control_upstream" validate:"required,hostname_port"`
}

// APIConfig configures the local control API listener.
type APIConfig struct {
	// ListenAddr is the local-only control API bind address.
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`

	// RateLimitRequests and RateLimitWindow bound webhook calls per
	// source IP.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=1s"`
}

// RuntimeConfig configures slot lifecycle behavior.
type RuntimeConfig struct {
	// ScriptsDir holds the lifecycle scripts (pull/build/stage/cleanup).
	ScriptsDir string `koanf:"scripts_dir" validate:"required"`

	// InstanceDir is the base directory under which slot artifacts
	// are staged, one subdirectory per slot.
	InstanceDir string `koanf:"instance_dir" validate:"required"`

	// BunPath is the executable used to run each slot's server.
	BunPath string `koanf:"bun_path" validate:"required"`

	// HealthProbeAttempts and HealthProbeInterval bound the health
	// check loop run against a freshly started slot.
	HealthProbeAttempts int           `koanf:"health_probe_attempts" validate:"min=1"`
	HealthProbeInterval time.Duration `koanf:"health_probe_interval" validate:"min=1ms"`

	// SettlingDelay is the pause between a successful health probe and
	// the traffic flip.
	SettlingDelay time.Duration `koanf:"settling_delay" validate:"min=0"`

	// ShutdownTimeout bounds how long graceful shutdown waits for the
	// proxy and control API to drain.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`
}

// LogConfig configures the ambient logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate runs struct-tag validation over the fully loaded config.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

/*
Package config provides centralized configuration management for the
blue/green deployment supervisor.

# Configuration Sources

Three layers, lowest to highest precedence:

  - Built-in struct defaults
  - An optional YAML config file, found via CONFIG_PATH or the default
    search paths
  - Environment variables

# Environment Variables

  - SUPERVISOR_PROXY_LISTEN: public proxy listen address (default 0.0.0.0:19130)
  - SUPERVISOR_API_KEY: webhook authentication key (no default; unset means
    the webhook always rejects)
  - SUPERVISOR_SCRIPTS_DIR: directory holding the lifecycle scripts
    (default /usr/local/share/supervisor/scripts)
  - SUPERVISOR_INSTANCE_DIR: base directory for slot artifacts
    (default /home/container/.app/instance)
  - SUPERVISOR_BUN_PATH: path to the bun executable (default "bun", resolved via PATH)
  - LOG_LEVEL, LOG_FORMAT: ambient logging configuration (see internal/logging)

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("failed to load configuration")
	}

# Thread Safety

The Config struct is immutable after LoadWithKoanf returns.
*/
package config

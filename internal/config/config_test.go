// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_PassesValidation(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestLoadWithKoanf_AppliesEnvOverrides(t *testing.T) {
	t.Setenv("SUPERVISOR_PROXY_LISTEN", "0.0.0.0:29130")
	t.Setenv("SUPERVISOR_SCRIPTS_DIR", "/tmp/scripts")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:29130", cfg.Proxy.ListenAddr)
	require.Equal(t, "/tmp/scripts", cfg.Runtime.ScriptsDir)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_Validate_RejectsMissingListenAddr(t *testing.T) {
	cfg := defaultConfig()
	cfg.Proxy.ListenAddr = ""
	require.Error(t, cfg.Validate())
}

func TestConfig_Validate_RejectsZeroHealthProbeAttempts(t *testing.T) {
	cfg := defaultConfig()
	cfg.Runtime.HealthProbeAttempts = 0
	require.Error(t, cfg.Validate())
}

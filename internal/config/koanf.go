// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where a config file is searched,
// in order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"supervisor.yaml",
	"supervisor.yml",
	"/etc/supervisor/config.yaml",
	"/etc/supervisor/config.yml",
}

// ConfigPathEnvVar overrides the config file search with an explicit path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns production-sane defaults matching the slot
// addresses and script layout fixed by the deployment contract.
func defaultConfig() *Config {
	return &Config{
		Proxy: ProxyConfig{
			ListenAddr:      "0.0.0.0:19130",
			ControlUpstream: "127.0.0.1:19180",
		},
		API: APIConfig{
			ListenAddr:        "127.0.0.1:19180",
			RateLimitRequests: 30,
			RateLimitWindow:   time.Minute,
		},
		Runtime: RuntimeConfig{
			ScriptsDir:          "/usr/local/share/supervisor/scripts",
			InstanceDir:         "/home/container/.app/instance",
			BunPath:             "bun",
			HealthProbeAttempts: 10,
			HealthProbeInterval: 3 * time.Second,
			SettlingDelay:       10 * time.Second,
			ShutdownTimeout:     10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with three layers of precedence:
// struct defaults, an optional YAML file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SUPERVISOR_API_KEY is read directly by the control API and never
	// enters koanf. Of the other SUPERVISOR_ variables, only the four named
	// in envTransformFunc (including SUPERVISOR_PROXY_LISTEN) are mapped to
	// koanf paths; any other SUPERVISOR_ variable is ignored.
	envProvider := env.Provider("SUPERVISOR_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := k.Load(env.Provider("LOG_", ".", logEnvTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load log environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps SUPERVISOR_PROXY_LISTEN -> proxy.listen_addr, etc.
func envTransformFunc(key string) string {
	switch key {
	case "SUPERVISOR_PROXY_LISTEN":
		// The proxy receives its listen address only through this koanf
		// path; nothing reads this variable directly.
		return "proxy.listen_addr"
	case "SUPERVISOR_SCRIPTS_DIR":
		return "runtime.scripts_dir"
	case "SUPERVISOR_INSTANCE_DIR":
		return "runtime.instance_dir"
	case "SUPERVISOR_BUN_PATH":
		return "runtime.bun_path"
	default:
		return ""
	}
}

// logEnvTransformFunc maps LOG_LEVEL -> log.level, LOG_FORMAT -> log.format.
func logEnvTransformFunc(key string) string {
	switch key {
	case "LOG_LEVEL":
		return "log.level"
	case "LOG_FORMAT":
		return "log.format"
	default:
		return ""
	}
}

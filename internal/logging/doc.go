// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

// Package logging provides centralized zerolog-based structured logging
// for the supervisor.
//
// This package implements a unified logging layer using zerolog, providing
// zero-allocation structured JSON logging for production and human-readable
// console output for development. Every supervisor component — the
// coordinator, the reverse proxy, the control API, the process wrapper,
// and the CLI — logs through this package rather than the standard log
// package, so output shares one JSON schema regardless of which
// component emitted it.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Global logger configuration via environment variables
//   - Context-aware logging with correlation, request, and update
//     sequence ID propagation
//   - slog adapter for Suture v4 integration
//
// # Quick Start
//
//	import "github.com/LeiCraftMC/Pterodactyl-Eggs/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Caller: false,
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("slot", "1").Msg("instance started")
//	logging.Error().Err(err).Int("code", 500).Msg("health probe failed")
//
//	// Context-aware logging
//	logging.Ctx(ctx).Info().Str("request_id", reqID).Msg("webhook received")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//
// These two are read by internal/config and passed to Init from main.
// Caller file:line is enabled only through Config.Caller; no environment
// variable controls it.
//
// Programmatic Configuration:
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal
//	    Format:    "console",  // json or console
//	    Caller:    true,       // Include caller info
//	    Timestamp: true,       // Include timestamps
//	    Output:    os.Stderr,  // Output writer
//	})
//
// # Log Levels
//
// Supported log levels (from most to least verbose):
//
//	trace  - Very detailed diagnostic information
//	debug  - Detailed diagnostic information
//	info   - General operational information (default)
//	warn   - Warning conditions that should be addressed
//	error  - Error conditions requiring attention
//	fatal  - Fatal errors that terminate the program
//	panic  - Panic conditions that crash the program
//
// # Structured Logging Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Use structured fields instead of string formatting:
//
//	// Good - structured, searchable, efficient
//	logging.Info().
//	    Str("slot", slot.String()).
//	    Int("attempt", attempt).
//	    Dur("elapsed", duration).
//	    Msg("health check")
//
//	// Avoid - unstructured, harder to parse
//	logging.Info().Msgf("health check on slot %s attempt %d took %v", slot, attempt, duration)
//
// # Component Loggers
//
// Create component-specific loggers with default fields:
//
//	// Create a logger for the coordinator
//	coordinatorLogger := logging.With().Str("component", "coordinator").Logger()
//	coordinatorLogger.Info().Msg("update sequence starting")
//	coordinatorLogger.Error().Err(err).Msg("update sequence failed")
//
// # Context-Aware Logging
//
// Propagate request and update-sequence context through logging:
//
//	// Extract correlation ID, request ID, and sequence ID from context
//	logger := logging.Ctx(ctx)
//	logger.Info().Msg("flipping active slot")
//
// An update sequence ID is minted once per on_update call
// (logging.ContextWithNewSequenceID) and flows through pull, build,
// stage, start, health-check, flip, and drain, so every log line from
// one deploy can be isolated by grepping a single sequence_id value.
//
// # slog Adapter
//
// The package provides an slog adapter for libraries that require slog.Logger:
//
//	slogLogger := logging.NewSlogLogger()
//	// passed to suture.Spec.EventHook via sutureslog, so supervision
//	// tree events flow through the same zerolog sinks as everything else
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-07-31T10:30:00Z","message":"instance started","slot":"1"}
//
// Console Format (Development):
//
//	10:30:00 INF instance started slot=1
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
//
// # See Also
//
//   - github.com/rs/zerolog: Underlying logging library
//   - internal/middleware: Request ID and Prometheus middleware built on this package
package logging

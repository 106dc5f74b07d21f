// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package coordinator

import "errors"

// Sentinel errors classifying a sequence-fatal failure, per the
// advisory/sequence-fatal/process-fatal tiers. Advisory failures never
// surface as an error at all: they are logged and the caller moves on.
var (
	// ErrAlreadyRunning is returned by startInstance when the target
	// slot already has a live process; the caller must not spawn a
	// second one.
	ErrAlreadyRunning = errors.New("coordinator: instance already running for this slot")

	// ErrHealthCheckFailed is returned when a freshly started slot never
	// answers a health probe within the configured attempt budget.
	ErrHealthCheckFailed = errors.New("coordinator: new slot failed health check")

	// ErrScriptFailed wraps a non-zero exit from a sequence-fatal
	// script (pull_latest_git_changes, create_new_build,
	// move_build_to_instance).
	ErrScriptFailed = errors.New("coordinator: lifecycle script exited non-zero")

	// ErrNoActiveSlot is returned if OnUpdate is invoked before Startup
	// has established an active slot.
	ErrNoActiveSlot = errors.New("coordinator: no active slot to flip from")
)

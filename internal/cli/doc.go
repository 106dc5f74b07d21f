// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

/*
Package cli implements the supervisor's interactive stdin loop.

Commands: help|? status|info instances backend queue update stop|shutdown.
"update" awaits the coordinator's full blue/green sequence before
re-prompting. "stop" shuts the coordinator down and exits the process
directly with os.Exit(0); every other command continues the loop.
End-of-stdin disables the reader via suture.ErrDoNotRestart rather than
treating it as a service failure.
*/
package cli

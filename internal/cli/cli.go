// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

// Package cli implements the supervisor's interactive stdin loop:
// status/update/shutdown commands for an operator attached to the
// process's controlling terminal.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thejerf/suture/v4"

	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/coordinator"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/logging"
)

// Coordinator is the subset of *coordinator.Coordinator the CLI needs.
type Coordinator interface {
	OnUpdate(ctx context.Context) error
	Shutdown(ctx context.Context) error
	StatusSnapshot() coordinator.Status
}

// Proxy is the subset of the reverse proxy dispatcher the "backend"
// command observes.
type Proxy interface {
	CurrentWorldBackend() (string, bool)
}

// Reader is an interactive stdin read-eval loop. It satisfies
// suture.Service via Serve.
type Reader struct {
	in    io.Reader
	out   io.Writer
	coord Coordinator
	proxy Proxy
}

// New constructs a Reader bound to os.Stdin/os.Stdout. Tests may
// construct Reader directly with substitute io.Reader/Writer values.
func New(coord Coordinator, proxy Proxy) *Reader {
	return &Reader{in: os.Stdin, out: os.Stdout, coord: coord, proxy: proxy}
}

// Serve runs the read-eval loop until ctx is canceled or stdin reaches
// EOF. EOF disables the CLI without treating it as a failure: it
// returns suture.ErrDoNotRestart so the rest of the process keeps running
// headless.
func (r *Reader) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	fmt.Fprint(r.out, "> ")

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			if done := r.dispatch(ctx, line); done {
				return nil
			}
		}
		fmt.Fprint(r.out, "> ")
	}

	if err := scanner.Err(); err != nil {
		logging.Warn().Err(err).Msg("cli: stdin read error, disabling CLI")
	}
	return suture.ErrDoNotRestart
}

// dispatch runs one command. It returns true if the process should
// exit (the "stop" command calls os.Exit itself and never returns).
func (r *Reader) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "help", "?":
		r.printHelp()
	case "status", "info":
		r.printStatus()
	case "instances":
		r.printInstances()
	case "backend":
		r.printBackend()
	case "queue":
		r.printQueue()
	case "update":
		fmt.Fprintln(r.out, "running update sequence...")
		if err := r.coord.OnUpdate(ctx); err != nil {
			fmt.Fprintf(r.out, "update failed: %v\n", err)
		} else {
			fmt.Fprintln(r.out, "update complete")
		}
	case "stop", "shutdown":
		fmt.Fprintln(r.out, "shutting down...")
		if err := r.coord.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("cli: shutdown failed")
		}
		os.Exit(0)
		return true
	default:
		fmt.Fprintf(r.out, "unknown command %q; type help for a list\n", fields[0])
	}
	return false
}

func (r *Reader) printHelp() {
	fmt.Fprintln(r.out, "commands: help|? status|info instances backend queue update stop|shutdown")
}

func (r *Reader) printStatus() {
	s := r.coord.StatusSnapshot()
	active := "none"
	if s.Active != nil {
		active = s.Active.String()
	}
	fmt.Fprintf(r.out, "active=%s updating=%t queued=%d\n", active, s.Updating, s.QueuedWaiters)
}

func (r *Reader) printInstances() {
	s := r.coord.StatusSnapshot()
	fmt.Fprintf(r.out, "slot 1 running=%t  slot 2 running=%t\n", s.Proc1Running, s.Proc2Running)
}

func (r *Reader) printBackend() {
	addr, ok := r.proxy.CurrentWorldBackend()
	if !ok {
		fmt.Fprintln(r.out, "no world backend set")
		return
	}
	fmt.Fprintf(r.out, "world backend: %s\n", addr)
}

func (r *Reader) printQueue() {
	s := r.coord.StatusSnapshot()
	fmt.Fprintf(r.out, "queued waiters: %d\n", s.QueuedWaiters)
}

// String implements fmt.Stringer for suture's logging.
func (r *Reader) String() string {
	return "cli"
}

// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package coordinator

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/procwrap"
)

// ScriptDirRunner runs lifecycle scripts from a fixed directory via the
// child-process wrapper. Arguments are passed exactly as given; there is
// no shell involved, so scripts must be directly executable.
type ScriptDirRunner struct {
	Dir string
}

// RunScript implements ScriptRunner.
func (r *ScriptDirRunner) RunScript(ctx context.Context, script string, args ...string) (procwrap.ExitStatus, error) {
	path := filepath.Join(r.Dir, script)
	h, err := procwrap.Spawn(ctx, path, args, nil)
	if err != nil {
		return procwrap.ExitStatus{}, fmt.Errorf("coordinator: spawn %s: %w", script, err)
	}
	return h.Wait()
}

// BunLauncher starts a slot's server using the bun runtime, with the
// NITRO_PORT/NITRO_HOST environment the Nitro server expects.
type BunLauncher struct {
	BunPath     string
	InstanceDir string
}

// StartInstance implements InstanceLauncher.
func (l *BunLauncher) StartInstance(ctx context.Context, slot Slot) (ProcessHandle, error) {
	entrypoint := filepath.Join(l.InstanceDir, slot.String(), "server", "index.mjs")
	env := []string{
		"NITRO_PORT=" + slot.Port(),
		"NITRO_HOST=127.0.0.1",
	}
	return procwrap.Spawn(ctx, l.BunPath, []string{entrypoint}, env)
}

// HTTPHealthProber issues GET http://addr/ and classifies the result per
// the generous liveness rule: 2xx, 3xx, and 400-405 are healthy; any
// connection error or other status is not.
type HTTPHealthProber struct {
	Client *http.Client
}

// NewHTTPHealthProber returns a prober with a short per-request timeout;
// the coordinator governs the overall probe loop's timing, not this
// client.
func NewHTTPHealthProber() *HTTPHealthProber {
	return &HTTPHealthProber{
		Client: &http.Client{
			Timeout: 2 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
			},
		},
	}
}

// Probe implements HealthProber.
func (p *HTTPHealthProber) Probe(ctx context.Context, addr string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/", nil)
	if err != nil {
		return false
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	switch {
	case status >= 200 && status <= 299:
		return true
	case status >= 300 && status <= 399:
		return true
	case status >= 400 && status <= 405:
		return true
	default:
		return false
	}
}

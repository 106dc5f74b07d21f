// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package procwrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/procwrap"
)

func TestSpawn_ExitCodeZero(t *testing.T) {
	ctx := context.Background()
	h, err := procwrap.Spawn(ctx, "sh", []string{"-c", "echo hello; echo world 1>&2"}, nil)
	require.NoError(t, err)

	status, err := h.Wait()
	require.NoError(t, err)
	require.True(t, status.Success())
	require.Equal(t, 0, status.Code)
}

func TestSpawn_NonZeroExit(t *testing.T) {
	ctx := context.Background()
	h, err := procwrap.Spawn(ctx, "sh", []string{"-c", "exit 7"}, nil)
	require.NoError(t, err)

	status, err := h.Wait()
	require.NoError(t, err)
	require.False(t, status.Success())
	require.Equal(t, 7, status.Code)
}

func TestSpawn_EnvironmentOverride(t *testing.T) {
	ctx := context.Background()
	h, err := procwrap.Spawn(ctx, "sh", []string{"-c", `test "$FOO" = "bar"`}, []string{"FOO=bar"})
	require.NoError(t, err)

	status, err := h.Wait()
	require.NoError(t, err)
	require.True(t, status.Success())
}

func TestSpawn_InvalidCommand(t *testing.T) {
	ctx := context.Background()
	_, err := procwrap.Spawn(ctx, "this-binary-does-not-exist-xyz", nil, nil)
	require.Error(t, err)
}

func TestHandle_Kill(t *testing.T) {
	ctx := context.Background()
	h, err := procwrap.Spawn(ctx, "sleep", []string{"30"}, nil)
	require.NoError(t, err)

	require.NoError(t, h.Kill())

	done := make(chan struct{})
	go func() {
		_, _ = h.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after Kill")
	}
}

func TestHandle_Detach(t *testing.T) {
	ctx := context.Background()
	h, err := procwrap.Spawn(ctx, "sh", []string{"-c", "sleep 0.1"}, nil)
	require.NoError(t, err)

	h.Detach()
	time.Sleep(200 * time.Millisecond)
}

// Pterodactyl-Eggs blue/green deployment supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeiCraftMC/Pterodactyl-Eggs

package coordinator

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/logging"
	"github.com/LeiCraftMC/Pterodactyl-Eggs/internal/metrics"
)

// Lifecycle script names, invoked through a ScriptRunner from the
// directory fixed by the deployment contract.
const (
	scriptPullLatestGitChanges = "pull_latest_git_changes.sh"
	scriptCleanupInstances     = "cleanup_instances.sh"
	scriptCleanupInstance      = "cleanup_instance.sh"
	scriptCreateNewBuild       = "create_new_build.sh"
	scriptMoveBuildToInstance  = "move_build_to_instance.sh"
)

// Config bounds the timing of the blue/green sequence.
type Config struct {
	// HealthProbeAttempts is the number of times a freshly started slot
	// is probed before the sequence gives up on it.
	HealthProbeAttempts int

	// HealthProbeInterval is the pause between probe attempts.
	HealthProbeInterval time.Duration

	// SettlingDelay is the pause between a successful probe and the
	// traffic flip.
	SettlingDelay time.Duration
}

// Coordinator serializes update requests and drives the
// build→stage→start→health-check→flip→drain sequence across the two
// slots. It is a concrete owned object: callers hold a *Coordinator and
// pass it to the control API, the CLI, and the bootstrap — there is no
// package-level singleton.
type Coordinator struct {
	scripts  ScriptRunner
	launcher InstanceLauncher
	prober   HealthProber
	proxy    WorldBackendSetter
	cfg      Config

	mu       sync.RWMutex
	active   *Slot
	proc     [3]ProcessHandle // indexed by Slot (1, 2); index 0 unused
	updating bool
	waiters  *list.List // of chan struct{}, buffered size 1

	subMu sync.Mutex
	subs  []chan Status
}

// New constructs a Coordinator. The collaborators (script runner,
// instance launcher, health prober, proxy backend setter) are injected
// so tests can substitute fakes without spawning real processes.
func New(scripts ScriptRunner, launcher InstanceLauncher, prober HealthProber, proxy WorldBackendSetter, cfg Config) *Coordinator {
	if cfg.HealthProbeAttempts <= 0 {
		cfg.HealthProbeAttempts = 10
	}
	if cfg.HealthProbeInterval <= 0 {
		cfg.HealthProbeInterval = 3 * time.Second
	}
	return &Coordinator{
		scripts:  scripts,
		launcher: launcher,
		prober:   prober,
		proxy:    proxy,
		cfg:      cfg,
		waiters:  list.New(),
	}
}

// Startup runs once, before the proxy begins accepting connections. It
// tolerates pull/cleanup failures but treats build and stage failures as
// fatal to the whole process: the caller should abort rather than run
// with no active slot.
func (c *Coordinator) Startup(ctx context.Context) error {
	if status, err := c.scripts.RunScript(ctx, scriptPullLatestGitChanges); err != nil || !status.Success() {
		logging.Warn().Err(err).Msg("coordinator: pull_latest_git_changes failed at startup, continuing")
	}
	if status, err := c.scripts.RunScript(ctx, scriptCleanupInstances); err != nil || !status.Success() {
		logging.Warn().Err(err).Msg("coordinator: cleanup_instances failed at startup, continuing")
	}

	if status, err := c.scripts.RunScript(ctx, scriptCreateNewBuild); err != nil || !status.Success() {
		return fmt.Errorf("coordinator: startup build failed: %w", firstErr(err, ErrScriptFailed))
	}
	if status, err := c.scripts.RunScript(ctx, scriptMoveBuildToInstance, Slot1.String()); err != nil || !status.Success() {
		return fmt.Errorf("coordinator: startup stage failed: %w", firstErr(err, ErrScriptFailed))
	}

	// active is set before startInstance is confirmed. Startup-only
	// window: callers see active=1 a moment before proc[1] exists.
	initial := Slot1
	c.mu.Lock()
	c.active = &initial
	c.mu.Unlock()

	ok, err := c.startInstance(ctx, Slot1)
	if err != nil || !ok {
		return fmt.Errorf("coordinator: startup could not start slot 1: %w", firstErr(err, ErrAlreadyRunning))
	}

	metrics.ActiveSlot.Set(float64(Slot1))
	logging.Info().Str("component", "coordinator").Str("active", Slot1.String()).Msg("startup complete")
	c.broadcast()
	return nil
}

// Subscribe registers a channel that receives a Status snapshot every
// time coordinator state transitions. Sends are best-effort: a slow
// subscriber misses intermediate snapshots rather than blocking the
// update sequence. Callers must invoke the returned function to stop
// receiving and release the channel.
func (c *Coordinator) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 4)
	c.subMu.Lock()
	c.subs = append(c.subs, ch)
	c.subMu.Unlock()

	return ch, func() { c.unsubscribe(ch) }
}

func (c *Coordinator) unsubscribe(ch chan Status) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for i, s := range c.subs {
		if s == ch {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// broadcast pushes the current snapshot to every subscriber without
// blocking on a slow reader.
func (c *Coordinator) broadcast() {
	status := c.StatusSnapshot()

	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- status:
		default:
		}
	}
}

// OnUpdate serializes callers behind a single in-flight update and then
// runs the blue/green sequence. A caller parked behind an in-flight
// update whose waiter is cancelled by Shutdown returns nil without
// performing any work.
func (c *Coordinator) OnUpdate(ctx context.Context) error {
	proceed := c.awaitTurn()
	if !proceed {
		return nil
	}
	defer c.exitTurn()

	return c.runSequence(ctx)
}

// awaitTurn either makes the caller the sole in-flight updater
// immediately, or enqueues it as a FIFO waiter and blocks until
// signaled.
func (c *Coordinator) awaitTurn() bool {
	c.mu.Lock()
	if !c.updating {
		c.updating = true
		c.mu.Unlock()
		return true
	}

	ch := make(chan struct{}, 1)
	c.waiters.PushBack(ch)
	metrics.UpdateQueueDepth.Set(float64(c.waiters.Len()))
	c.mu.Unlock()

	// The only way this channel closes without a value is Shutdown,
	// which has already emptied the waiters list itself; there is
	// nothing left here to remove.
	_, ok := <-ch
	return ok
}

// exitTurn implements the exit logic: wake the next waiter, or clear
// updating if the queue is empty. The lock is released before
// broadcasting since StatusSnapshot takes its own read lock.
func (c *Coordinator) exitTurn() {
	c.mu.Lock()

	for {
		front := c.waiters.Front()
		if front == nil {
			c.updating = false
			metrics.UpdateQueueDepth.Set(0)
			c.mu.Unlock()
			c.broadcast()
			return
		}
		c.waiters.Remove(front)
		ch, _ := front.Value.(chan struct{})

		select {
		case ch <- struct{}{}:
			metrics.UpdateQueueDepth.Set(float64(c.waiters.Len()))
			c.mu.Unlock()
			c.broadcast()
			return
		default:
			// Receiver already gone; try the next one.
			continue
		}
	}
}

// runSequence executes one in-flight update: pull, build, stage,
// start, probe, commit, settle, flip, drain, cleanup. It assumes the
// caller already holds the "turn" (updating is true and no one else is
// running a sequence concurrently).
func (c *Coordinator) runSequence(ctx context.Context) error {
	start := time.Now()

	// Every log line this sequence emits, across every step below,
	// carries the same sequence_id so an operator can isolate one
	// deploy's worth of output from the rest of the process's logs.
	ctx = logging.ContextWithNewSequenceID(ctx)

	c.mu.RLock()
	oldPtr := c.active
	c.mu.RUnlock()
	if oldPtr == nil {
		metrics.UpdatesTotal.WithLabelValues("aborted").Inc()
		return ErrNoActiveSlot
	}
	oldSlot := *oldPtr
	newSlot := oldSlot.Other()

	logging.CtxInfo(ctx).Str("component", "coordinator").Str("old", oldSlot.String()).Str("new", newSlot.String()).
		Msg("update sequence starting")

	// pull — advisory in Startup, but this call site treats a non-zero
	// exit as sequence-fatal: abort without mutating state.
	if status, err := c.scripts.RunScript(ctx, scriptPullLatestGitChanges); err != nil || !status.Success() {
		metrics.UpdatesTotal.WithLabelValues("aborted").Inc()
		return fmt.Errorf("coordinator: pull_latest_git_changes failed: %w", firstErr(err, ErrScriptFailed))
	}

	// build
	if status, err := c.scripts.RunScript(ctx, scriptCreateNewBuild); err != nil || !status.Success() {
		metrics.UpdatesTotal.WithLabelValues("aborted").Inc()
		return fmt.Errorf("coordinator: create_new_build failed: %w", firstErr(err, ErrScriptFailed))
	}

	// stage into the idle slot
	if status, err := c.scripts.RunScript(ctx, scriptMoveBuildToInstance, newSlot.String()); err != nil || !status.Success() {
		if status, cleanupErr := c.scripts.RunScript(ctx, scriptCleanupInstance, newSlot.String()); cleanupErr != nil || !status.Success() {
			logging.CtxWarn(ctx).Err(cleanupErr).Str("slot", newSlot.String()).Msg("cleanup_instance failed after stage failure")
		}
		metrics.UpdatesTotal.WithLabelValues("aborted").Inc()
		return fmt.Errorf("coordinator: move_build_to_instance failed: %w", firstErr(err, ErrScriptFailed))
	}

	// start
	if ok, err := c.startInstance(ctx, newSlot); err != nil || !ok {
		metrics.UpdatesTotal.WithLabelValues("aborted").Inc()
		return fmt.Errorf("coordinator: start_instance(%s) failed: %w", newSlot, firstErr(err, ErrAlreadyRunning))
	}

	// probe until healthy, or give up and tear the new slot back down
	if !c.probeUntilHealthy(ctx, newSlot) {
		c.terminateInstance(newSlot)
		c.broadcast()
		if status, err := c.scripts.RunScript(ctx, scriptCleanupInstance, newSlot.String()); err != nil || !status.Success() {
			logging.CtxWarn(ctx).Err(err).Str("slot", newSlot.String()).Msg("cleanup_instance failed after health check failure")
		}
		metrics.UpdatesTotal.WithLabelValues("health_check_failed").Inc()
		return ErrHealthCheckFailed
	}

	// commit point: active changes before the proxy flips, so a status
	// read in the settling window can see an active slot that is not
	// yet receiving traffic
	committed := newSlot
	c.mu.Lock()
	c.active = &committed
	c.mu.Unlock()
	metrics.ActiveSlot.Set(float64(newSlot))
	c.broadcast()

	// settle
	select {
	case <-time.After(c.cfg.SettlingDelay):
	case <-ctx.Done():
	}

	// flip traffic
	if err := c.proxy.SetWorldBackend(newSlot.Addr()); err != nil {
		logging.CtxErr(ctx, err).Str("slot", newSlot.String()).Msg("failed to flip proxy world backend")
	}

	// drain the old slot, only after the flip
	c.terminateInstance(oldSlot)
	c.broadcast()

	// cleanup old — advisory
	if status, err := c.scripts.RunScript(ctx, scriptCleanupInstance, oldSlot.String()); err != nil || !status.Success() {
		logging.CtxWarn(ctx).Err(err).Str("slot", oldSlot.String()).Msg("cleanup_instance failed after drain")
	}

	metrics.UpdatesTotal.WithLabelValues("success").Inc()
	metrics.UpdateDuration.Observe(time.Since(start).Seconds())
	logging.CtxInfo(ctx).Dur("duration", time.Since(start)).Msg("update sequence complete")
	return nil
}

// startInstance spawns slot S's process under the coordinator lock,
// refusing to double-start a slot that already has a live handle.
func (c *Coordinator) startInstance(ctx context.Context, slot Slot) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.proc[slot] != nil {
		return false, ErrAlreadyRunning
	}

	handle, err := c.launcher.StartInstance(ctx, slot)
	if err != nil {
		return false, fmt.Errorf("coordinator: launch slot %s: %w", slot, err)
	}

	c.proc[slot] = handle
	return true, nil
}

// terminateInstance removes slot S's handle (if any) and waits for it
// to exit outside the lock.
func (c *Coordinator) terminateInstance(slot Slot) {
	c.mu.Lock()
	handle := c.proc[slot]
	c.proc[slot] = nil
	c.mu.Unlock()

	if handle == nil {
		return
	}
	if err := handle.Kill(); err != nil {
		logging.Warn().Err(err).Str("slot", slot.String()).Msg("kill failed")
	}
	if _, err := handle.Wait(); err != nil {
		logging.Warn().Err(err).Str("slot", slot.String()).Msg("wait after kill failed")
	}
}

// probeUntilHealthy issues up to cfg.HealthProbeAttempts probes against
// slot S, sleeping cfg.HealthProbeInterval between attempts.
func (c *Coordinator) probeUntilHealthy(ctx context.Context, slot Slot) bool {
	for attempt := 1; attempt <= c.cfg.HealthProbeAttempts; attempt++ {
		if c.prober.Probe(ctx, slot.Addr()) {
			return true
		}
		metrics.HealthProbeFailuresTotal.WithLabelValues(slot.String()).Inc()

		if attempt == c.cfg.HealthProbeAttempts {
			break
		}
		select {
		case <-time.After(c.cfg.HealthProbeInterval):
		case <-ctx.Done():
			return false
		}
	}
	return false
}

// StatusSnapshot returns a cheap, read-only view of coordinator state.
// It never mutates state and is safe to call concurrently with an
// in-flight update.
func (c *Coordinator) StatusSnapshot() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var active *Slot
	if c.active != nil {
		s := *c.active
		active = &s
	}

	return Status{
		Active:        active,
		Proc1Running:  c.proc[Slot1] != nil,
		Proc2Running:  c.proc[Slot2] != nil,
		Updating:      c.updating,
		QueuedWaiters: c.waiters.Len(),
	}
}

// Shutdown terminates both slots regardless of which is active, clears
// coordinator state, cancels every queued waiter, and runs the advisory
// cleanup_instances script. It does not exit the process.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.active = nil
	c.updating = false

	for e := c.waiters.Front(); e != nil; e = e.Next() {
		if ch, ok := e.Value.(chan struct{}); ok {
			close(ch)
		}
	}
	c.waiters.Init()

	proc1, proc2 := c.proc[Slot1], c.proc[Slot2]
	c.proc[Slot1], c.proc[Slot2] = nil, nil
	c.mu.Unlock()

	for _, h := range []ProcessHandle{proc1, proc2} {
		if h == nil {
			continue
		}
		if err := h.Kill(); err != nil {
			logging.Warn().Err(err).Msg("coordinator: kill during shutdown failed")
		}
		if _, err := h.Wait(); err != nil {
			logging.Warn().Err(err).Msg("coordinator: wait during shutdown failed")
		}
	}

	metrics.ActiveSlot.Set(0)
	metrics.UpdateQueueDepth.Set(0)
	c.broadcast()

	if status, err := c.scripts.RunScript(ctx, scriptCleanupInstances); err != nil || !status.Success() {
		logging.Warn().Err(err).Msg("coordinator: cleanup_instances failed during shutdown")
	}
	return nil
}

// firstErr returns err if non-nil, otherwise fallback. Used so
// "script ran but exited non-zero" and "script failed to spawn" both
// produce a wrapped error worth returning to the caller.
func firstErr(err, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}

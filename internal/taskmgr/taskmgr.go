// Package taskmgr owns the cron scheduler's tick driver and the live task
// map, and implements the reconcile-by-diff algorithm that converges the
// task set to a newly pulled spec map without tearing down unchanged tasks.
package taskmgr

import (
	"context"
	"sync"
	"time"

	"fleetcron.dev/fleetcron/internal/cronsched"
	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/metrics"
	"fleetcron.dev/fleetcron/internal/model"
	"fleetcron.dev/fleetcron/internal/task"
)

// tickInterval is the cadence at which the scheduler's Tick is driven.
const tickInterval = 1 * time.Second

// Manager owns a cron scheduler, the tick driver goroutine, and the map of
// live tasks keyed by TaskID.
type Manager struct {
	mu    sync.Mutex
	sched *cronsched.Scheduler
	tasks map[ids.TaskID]*task.Task

	tickCancel context.CancelFunc
	tickWG     sync.WaitGroup
}

// New constructs an empty Manager with its own Scheduler.
func New() *Manager {
	return &Manager{
		sched: cronsched.New(),
		tasks: make(map[ids.TaskID]*task.Task),
	}
}

// StartTick starts the scheduler's 1-second tick driver goroutine, deriving
// its lifetime from ctx. Calling StartTick again replaces the stored cancel
// function without first cancelling the prior driver — the old goroutine
// keeps running until ctx (or whatever drove the earlier call) is itself
// cancelled. This leak-on-double-start is preserved verbatim from the
// source design; callers should StopTick before calling StartTick again.
func (m *Manager) StartTick(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tickCtx, cancel := context.WithCancel(ctx)
	m.tickCancel = cancel

	m.tickWG.Add(1)
	go func() {
		defer m.tickWG.Done()
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case now := <-ticker.C:
				m.sched.Tick(now)
				metrics.SchedulerJobsGauge.Set(float64(m.sched.Len()))
			}
		}
	}()
}

// StopTick cancels the tick driver and waits for it to return.
func (m *Manager) StopTick() {
	m.mu.Lock()
	cancel := m.tickCancel
	m.tickCancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.tickWG.Wait()
}

// Reload is the reconciler: it converges the live task map to newSpecs.
// Removals are processed before upserts. Not atomic across tasks — a
// failure reconfiguring one task does not roll back progress on others.
func (m *Manager) Reload(newSpecs map[ids.TaskID]model.TaskSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var toRemove []ids.TaskID
	for id := range m.tasks {
		if _, ok := newSpecs[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		m.tasks[id].Deactivate()
		delete(m.tasks, id)
	}

	for id, spec := range newSpecs {
		if existing, ok := m.tasks[id]; ok {
			existing.Update(spec)
			continue
		}
		t := task.New(spec, m.sched)
		m.tasks[id] = t
		t.TryActivate()
	}

	metrics.SchedulerJobsGauge.Set(float64(m.sched.Len()))
}

// ExportLog drains every task's event buffer. Snapshot semantics are
// per-task, not global: the manager lock keeps the task set fixed, but each
// task is drained in turn, so events can still arrive in a task that has
// already been drained while later tasks are being drained.
func (m *Manager) ExportLog() map[ids.TaskID][]model.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[ids.TaskID][]model.Event, len(m.tasks))
	for id, t := range m.tasks {
		out[id] = t.ExportLog()
	}
	return out
}

// Len returns the number of tasks currently tracked. Intended for tests.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// SchedulerJobCount exposes the scheduler's registered job count for tests.
func (m *Manager) SchedulerJobCount() int {
	return m.sched.Len()
}

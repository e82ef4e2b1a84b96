// Package task implements the Task state machine: a spec tied to its
// triggers and execution context, with activate/deactivate/update
// transitions.
package task

import (
	"log/slog"
	"sync"
	"time"

	"fleetcron.dev/fleetcron/internal/cronsched"
	"fleetcron.dev/fleetcron/internal/metrics"
	"fleetcron.dev/fleetcron/internal/model"
	"fleetcron.dev/fleetcron/internal/taskbody"
	"fleetcron.dev/fleetcron/internal/taskctx"
	"fleetcron.dev/fleetcron/internal/trigger"
)

// State is one of the two Task lifecycle states.
type State uint8

const (
	Deactivated State = iota
	Activated
)

func (s State) String() string {
	if s == Activated {
		return "activated"
	}
	return "deactivated"
}

// Task ties a TaskSpec to its execution context and installed triggers,
// exposing the Activated/Deactivated state machine described by the design.
type Task struct {
	mu sync.Mutex

	spec     model.TaskSpec
	ctx      *taskctx.Context
	triggers []trigger.Trigger
	sched    *cronsched.Scheduler
	state    State
	log      *slog.Logger
}

// New constructs a Task from spec, built Deactivated. Its body and triggers
// are constructed eagerly; the caller is expected to call Activate (or
// TryActivate) separately.
func New(spec model.TaskSpec, sched *cronsched.Scheduler) *Task {
	body := taskbody.New(spec.Task)
	t := &Task{
		spec:     spec,
		ctx:      taskctx.New(spec.Name, body),
		triggers: buildTriggers(spec.Triggers, sched),
		sched:    sched,
		state:    Deactivated,
		log:      slog.With("task", spec.Name),
	}
	metrics.TaskState.WithLabelValues(spec.Name).Set(metrics.TaskStateDeactivated)
	return t
}

// logger returns t's bound logger, falling back to the global default for a
// Task built without New (as some tests do).
func (t *Task) logger() *slog.Logger {
	if t.log != nil {
		return t.log
	}
	return slog.Default()
}

func buildTriggers(specs []model.TriggerSpec, sched *cronsched.Scheduler) []trigger.Trigger {
	triggers := make([]trigger.Trigger, len(specs))
	for i, s := range specs {
		triggers[i] = trigger.New(s, sched)
	}
	return triggers
}

// State returns the task's current lifecycle state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// ExportLog drains the task's execution-history event buffer.
func (t *Task) ExportLog() []model.Event {
	return t.ctx.ExportLog()
}

// Activate installs every trigger in spec order. On the first install
// failure, it returns that error immediately: the task remains Deactivated
// even though any triggers installed before the failing one stay installed
// — a subsequent Activate retry will reinstall those again. This sharp edge
// is preserved verbatim from the source design (see design notes).
func (t *Task) Activate() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activateLocked()
}

func (t *Task) activateLocked() error {
	if t.state == Activated {
		return nil
	}

	for _, trg := range t.triggers {
		start := time.Now()
		err := trg.Install(t.ctx)
		end := time.Now()

		var ev model.Event
		if err != nil {
			ev = model.NewEventErr(model.EventTriggerInstall, start, end, err)
		} else {
			ev = model.NewEvent(model.EventTriggerInstall, start, end, statusOK())
		}
		t.ctx.AppendEvent(ev)

		if err != nil {
			return err
		}
	}

	t.state = Activated
	metrics.TaskState.WithLabelValues(t.spec.Name).Set(metrics.TaskStateActivated)
	return nil
}

// Deactivate uninstalls every trigger. Uninstall never fails. Each
// uninstall appends an event tagged TriggerInstall rather than the
// Deactivate kind that exists in the enum for exactly this purpose — that
// mistagging is the source design's behaviour and is preserved verbatim
// here (see design notes; changing it would alter the wire format of
// reported logs). Idempotent: a no-op when already Deactivated.
func (t *Task) Deactivate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deactivateLocked()
}

func (t *Task) deactivateLocked() {
	if t.state == Deactivated {
		return
	}

	for _, trg := range t.triggers {
		start := time.Now()
		trg.Uninstall()
		end := time.Now()
		t.ctx.AppendEvent(model.NewEvent(model.EventTriggerInstall, start, end, statusOK()))
	}

	t.state = Deactivated
	metrics.TaskState.WithLabelValues(t.spec.Name).Set(metrics.TaskStateDeactivated)
}

// Update reconfigures the task in place, preserving its identity. If the
// task body changed, it is rebuilt and swapped in (after a Deactivate). If
// the trigger sequence changed, the triggers are rebuilt and replaced
// (after a second Deactivate — when both change, Deactivate runs twice;
// this is harmless but wasteful and preserved verbatim from the source
// design rather than coalesced). The spec is replaced unconditionally, and
// TryActivate is called so the update is a single atomic step from the
// caller's point of view.
func (t *Task) Update(newSpec model.TaskSpec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.spec.Task.Equal(newSpec.Task) {
		t.deactivateLocked()
		t.ctx.SetBody(taskbody.New(newSpec.Task))
	}

	if !model.TriggersEqual(t.spec.Triggers, newSpec.Triggers) {
		t.deactivateLocked()
		t.triggers = buildTriggers(newSpec.Triggers, t.sched)
	}

	t.spec = newSpec

	if err := t.activateLocked(); err != nil {
		t.logger().Warn("task try_activate failed during update", "error", err)
	}
}

// TryActivate calls Activate, logging and swallowing any error. Used from
// the manager's reconcile path so one bad spec does not abort the reload.
func (t *Task) TryActivate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.activateLocked(); err != nil {
		t.logger().Warn("task try_activate failed", "error", err)
	}
}

func statusOK() model.TaskResult {
	var zero int32
	return model.TaskResult{Status: &zero}
}

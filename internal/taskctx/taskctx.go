// Package taskctx implements the per-task execution context: it owns one
// task body and serialises its runs behind a single mutex, which is what
// gives the at-most-one-concurrent-run-per-task guarantee, and accumulates
// an unbounded FIFO event log drained destructively on export.
package taskctx

import (
	"context"
	"sync"
	"time"

	"fleetcron.dev/fleetcron/internal/metrics"
	"fleetcron.dev/fleetcron/internal/model"
)

// Body is the minimal surface a task body implements.
type Body interface {
	Run(ctx context.Context) (model.TaskResult, error)
}

// Context owns a task body and its run history. Holding mu for the whole of
// Run means a second concurrent fire blocks until the first completes —
// the source of the at-most-one-concurrent-run guarantee.
type Context struct {
	mu   sync.Mutex
	name string
	body Body
	log  []model.Event
}

// New constructs a Context wrapping body. name labels the task/task_run_duration
// metrics Run reports.
func New(name string, body Body) *Context {
	return &Context{name: name, body: body}
}

// SetBody swaps the wrapped body. Callers must ensure no concurrent Run is
// racing this (the task state machine only swaps a body while Deactivated).
func (c *Context) SetBody(body Body) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = body
}

// Run executes the wrapped body once, exclusively, and appends a Run event
// capturing its wall-clock span and outcome.
func (c *Context) Run(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	result, err := c.body.Run(ctx)
	end := time.Now()

	outcome := metrics.OutcomeOK
	var ev model.Event
	if err != nil {
		outcome = metrics.OutcomeErr
		ev = model.NewEventErr(model.EventRun, start, end, err)
	} else {
		ev = model.NewEvent(model.EventRun, start, end, result)
	}
	c.log = append(c.log, ev)

	metrics.TaskRunsTotal.WithLabelValues(c.name, outcome).Inc()
	metrics.TaskRunDurationSeconds.WithLabelValues(c.name).Observe(end.Sub(start).Seconds())
}

// AppendEvent appends a pre-built event (used by the Task state machine for
// the TriggerInstall-kind events it records on activation and deactivation,
// which are not body runs).
func (c *Context) AppendEvent(ev model.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, ev)
}

// ExportLog drains the FIFO event buffer and returns the drained events in
// append order. A subsequent call returns nil until more events accumulate.
func (c *Context) ExportLog() []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	drained := c.log
	c.log = nil
	return drained
}

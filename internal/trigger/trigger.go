// Package trigger implements the three trigger kinds that bind a task's
// execution context to a firing source: cron expression, immediate, and
// startup.
package trigger

import (
	"context"

	"fleetcron.dev/fleetcron/internal/cronsched"
	"fleetcron.dev/fleetcron/internal/model"
)

// Runner is the minimal surface a trigger needs from a task's execution
// context: run the task body once, serialised against concurrent fires.
type Runner interface {
	Run(ctx context.Context)
}

// Trigger is the uniform interface all three variants implement.
type Trigger interface {
	// Install binds the trigger to ctx, arranging for ctx.Run to be invoked
	// at the trigger's appropriate moments. An error means nothing was
	// registered.
	Install(ctx Runner) error
	// Uninstall reverses Install. It always succeeds.
	Uninstall()
}

// New constructs the Trigger implementation for spec.
func New(spec model.TriggerSpec, sched *cronsched.Scheduler) Trigger {
	switch spec.Kind {
	case model.TriggerCron:
		return &CronTrigger{sched: sched, expr: spec.Expr}
	case model.TriggerImmediate:
		return &ImmediateTrigger{}
	case model.TriggerStartup:
		return &StartupTrigger{}
	default:
		return &ImmediateTrigger{}
	}
}

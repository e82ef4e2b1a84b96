package trigger

import (
	"context"

	"fleetcron.dev/fleetcron/internal/cronsched"
	"fleetcron.dev/fleetcron/internal/model"
)

// CronTrigger fires ctx.Run on every instant its cron expression matches.
type CronTrigger struct {
	sched *cronsched.Scheduler
	expr  string

	jobID    cronsched.JobID
	hasJobID bool
}

// Install parses expr and registers a scheduled job whose closure runs ctx.
// On parse failure nothing is registered and the returned error is a
// *model.TaskSpecError{Kind: InvalidCronExpression}.
func (t *CronTrigger) Install(ctx Runner) error {
	schedule, err := cronsched.ParseSchedule(t.expr)
	if err != nil {
		return &model.TaskSpecError{Kind: model.InvalidCronExpression, Expr: t.expr}
	}

	id := t.sched.Add(schedule, func() {
		ctx.Run(context.Background())
	})
	t.jobID = id
	t.hasJobID = true
	return nil
}

// Uninstall removes the registered job, if any.
func (t *CronTrigger) Uninstall() {
	if t.hasJobID {
		t.sched.Remove(t.jobID)
		t.hasJobID = false
	}
}

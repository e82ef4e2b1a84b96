package trigger

import "context"

// ImmediateTrigger fires exactly one fire-and-forget run of its context on
// Install. There is no way to cancel the in-flight run.
type ImmediateTrigger struct{}

func (t *ImmediateTrigger) Install(ctx Runner) error {
	go ctx.Run(context.Background())
	return nil
}

func (t *ImmediateTrigger) Uninstall() {}

// StartupTrigger is, in this design, observationally identical to
// ImmediateTrigger: both fire once on Install with no distinction between a
// process-startup install and a reload-induced re-activation. This mirrors
// the original implementation's trigger.rs, where StartupTrigger and
// ImmediateTrigger are structurally duplicated; it is preserved here rather
// than given the (intended but never implemented) startup-only semantics —
// see design notes.
type StartupTrigger struct{}

func (t *StartupTrigger) Install(ctx Runner) error {
	go ctx.Run(context.Background())
	return nil
}

func (t *StartupTrigger) Uninstall() {}

package taskbody

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"fleetcron.dev/fleetcron/internal/model"
)

// Command spawns Spec.Cmd with Spec.Args in Spec.Cwd. If Spec.Shell, the
// command and its arguments are joined and wrapped in a platform shell
// invocation instead of exec'd directly.
//
// The original source built the shell-wrapped argument vector as
// ["/bin/sh", "-c", joined] ++ args — duplicating args a second time after
// already folding them into joined. That is a bug (see design notes); this
// implementation uses the corrected, non-duplicated form.
type Command struct {
	Spec model.CommandSpec
}

func (c *Command) Run(ctx context.Context) (model.TaskResult, error) {
	var cmd *exec.Cmd

	if c.Spec.Shell {
		joined := strings.Join(append([]string{c.Spec.Cmd}, c.Spec.Args...), " ")
		switch runtime.GOOS {
		case "windows":
			cmd = exec.CommandContext(ctx, "cmd.exe", "/C", joined)
		case "linux", "darwin":
			cmd = exec.CommandContext(ctx, "/bin/sh", "-c", joined)
		default:
			return model.TaskResult{}, &model.ErrUnsupportedPlatform{OS: runtime.GOOS}
		}
	} else {
		cmd = exec.CommandContext(ctx, c.Spec.Cmd, c.Spec.Args...)
	}

	cmd.Dir = c.Spec.Cwd

	err := cmd.Run()
	if err == nil {
		return statusCode(cmd.ProcessState.ExitCode()), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return statusCode(exitErr.ExitCode()), nil
	}
	return model.TaskResult{}, &model.ErrRuntimeError{Msg: err.Error()}
}

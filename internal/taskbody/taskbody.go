// Package taskbody implements the three built-in task bodies: downloading a
// file over HTTP, running a command (optionally shell-wrapped), and editing
// the system hosts file.
package taskbody

import (
	"context"

	"fleetcron.dev/fleetcron/internal/model"
)

// Body is implemented by every task body; it is the same surface taskctx.Body
// expects.
type Body interface {
	Run(ctx context.Context) (model.TaskResult, error)
}

// New constructs the Body implementation for spec.
func New(spec model.TaskBody) Body {
	switch spec.Kind {
	case model.TaskBodyFileUpdate:
		return &FileUpdate{Spec: *spec.File}
	case model.TaskBodyCommand:
		return &Command{Spec: *spec.Command}
	case model.TaskBodyHosts:
		return &Hosts{Spec: *spec.Hosts}
	default:
		return noop{}
	}
}

type noop struct{}

func (noop) Run(ctx context.Context) (model.TaskResult, error) {
	var zero int32
	return model.TaskResult{Status: &zero}, nil
}

func statusOK() model.TaskResult {
	var zero int32
	return model.TaskResult{Status: &zero}
}

func statusCode(code int) model.TaskResult {
	c := int32(code)
	return model.TaskResult{Status: &c}
}

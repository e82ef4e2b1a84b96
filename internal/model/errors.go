package model

import "fmt"

// TaskSpecErrorKind is the one inner error kind nested under TaskSpecError.
type TaskSpecErrorKind uint8

const (
	InvalidCronExpression TaskSpecErrorKind = iota
)

// TaskSpecError wraps a task-specification-level failure, currently limited
// to an unparseable cron expression.
type TaskSpecError struct {
	Kind TaskSpecErrorKind
	Expr string
}

func (e *TaskSpecError) Error() string {
	switch e.Kind {
	case InvalidCronExpression:
		return fmt.Sprintf("invalid cron expression %q", e.Expr)
	default:
		return "task spec error"
	}
}

func (e *TaskSpecError) ErrKind() string { return "TaskSpecError" }

// ErrTaskNotFound indicates a referenced TaskID has no corresponding Task.
type ErrTaskNotFound struct {
	ID string
}

func (e *ErrTaskNotFound) Error() string { return fmt.Sprintf("task not found: %s", e.ID) }
func (e *ErrTaskNotFound) ErrKind() string { return "TaskNotFound" }

// ErrUnsupportedPlatform indicates a task body cannot run on the current GOOS.
type ErrUnsupportedPlatform struct {
	OS string
}

func (e *ErrUnsupportedPlatform) Error() string { return fmt.Sprintf("unsupported platform: %s", e.OS) }
func (e *ErrUnsupportedPlatform) ErrKind() string { return "UnsupportedPlatform" }

// ErrIoError wraps a filesystem failure encountered by a task body.
type ErrIoError struct {
	Msg string
}

func (e *ErrIoError) Error() string { return e.Msg }
func (e *ErrIoError) ErrKind() string { return "IoError" }

// WrapIoError wraps err as an ErrIoError, or returns nil if err is nil.
func WrapIoError(err error) error {
	if err == nil {
		return nil
	}
	return &ErrIoError{Msg: err.Error()}
}

// ErrNetError wraps a network failure encountered by a task body.
type ErrNetError struct {
	Msg string
}

func (e *ErrNetError) Error() string { return e.Msg }
func (e *ErrNetError) ErrKind() string { return "NetError" }

// WrapNetError wraps err as an ErrNetError, or returns nil if err is nil.
func WrapNetError(err error) error {
	if err == nil {
		return nil
	}
	return &ErrNetError{Msg: err.Error()}
}

// ErrRuntimeError is a catch-all for failures that don't fit another kind.
type ErrRuntimeError struct {
	Msg string
}

func (e *ErrRuntimeError) Error() string { return e.Msg }
func (e *ErrRuntimeError) ErrKind() string { return "RuntimeError" }

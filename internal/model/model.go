// Package model defines the agent's wire- and storage-level data model:
// task specifications, trigger specifications, and the execution-history
// event types appended to a task's context.
package model

import (
	"reflect"
	"time"

	"fleetcron.dev/fleetcron/internal/ids"
)

// FileSpec describes a FileUpdate task body: download Source to Destination,
// overwriting. Destination may begin with "~" for home-directory expansion.
type FileSpec struct {
	Destination string `json:"destination"`
	Source      string `json:"source"`
}

// CommandSpec describes a Command task body.
type CommandSpec struct {
	Cmd   string   `json:"cmd"`
	Args  []string `json:"args"`
	Cwd   string   `json:"cwd"`
	Shell bool     `json:"shell"`
}

// HostSpec describes a Hosts task body: the IP whose line of the system hosts
// file is rewritten, and the requested hostnames. Requested hostnames are
// written only on a newly appended line; an existing line for IP gains none
// it does not already have.
type HostSpec struct {
	IP    string   `json:"ip"`
	Hosts []string `json:"hosts"`
}

// TaskBodyKind discriminates the TaskBody tagged variant.
type TaskBodyKind uint8

const (
	TaskBodyFileUpdate TaskBodyKind = iota
	TaskBodyCommand
	TaskBodyHosts
)

// TaskBody is a tagged variant over {FileSpec, CommandSpec, HostSpec}.
// Exactly one of File/Command/Hosts is meaningful, selected by Kind.
type TaskBody struct {
	Kind    TaskBodyKind `json:"kind"`
	File    *FileSpec    `json:"file,omitempty"`
	Command *CommandSpec `json:"command,omitempty"`
	Hosts   *HostSpec    `json:"hosts,omitempty"`
}

// Equal reports whether two TaskBody values are deeply equal.
func (b TaskBody) Equal(o TaskBody) bool {
	return reflect.DeepEqual(b, o)
}

// TriggerKind discriminates the TriggerSpec tagged variant.
type TriggerKind uint8

const (
	TriggerCron TriggerKind = iota
	TriggerImmediate
	TriggerStartup
)

// TriggerSpec is a tagged variant {Cron(expr), Immediate, Startup}.
// Two TriggerSpecs are equal iff same Kind and same Expr.
type TriggerSpec struct {
	Kind TriggerKind `json:"kind"`
	Expr string      `json:"expr,omitempty"` // cron expression, only meaningful for TriggerCron
}

// OnErrorKind discriminates the OnError tagged variant.
type OnErrorKind uint8

const (
	OnErrorRetry OnErrorKind = iota
	OnErrorIgnore
)

// OnError describes a task's (currently unenforced, see design notes) error
// policy.
type OnError struct {
	Kind            OnErrorKind `json:"kind"`
	Times           uint8       `json:"times,omitempty"`
	IntervalSeconds uint64      `json:"interval_seconds,omitempty"`
}

// TaskSpec is the declarative description of a task, as sent over the wire.
// Two TaskSpecs compare equal iff all fields compare equal; the manager uses
// this equality to decide when to rebuild a task's body and/or triggers.
type TaskSpec struct {
	Name     string        `json:"name"`
	Task     TaskBody      `json:"task"`
	OnError  OnError       `json:"on_error"`
	Triggers []TriggerSpec `json:"triggers"`
}

// Equal reports whether two TaskSpecs are deeply equal.
func (s TaskSpec) Equal(o TaskSpec) bool {
	return reflect.DeepEqual(s, o)
}

// TriggersEqual reports whether two trigger sequences are element-wise equal,
// including order.
func TriggersEqual(a, b []TriggerSpec) bool {
	return reflect.DeepEqual(a, b)
}

// TaskResult is the outcome of one body execution.
type TaskResult struct {
	Status  *int32 `json:"status,omitempty"` // exit code, or 0 for success with no code
	Message string `json:"message,omitempty"`
}

// EventKind discriminates what caused an Event to be appended.
type EventKind uint8

const (
	EventTriggerInstall EventKind = iota
	EventDeactivate
	EventRun
)

func (k EventKind) String() string {
	switch k {
	case EventTriggerInstall:
		return "trigger_install"
	case EventDeactivate:
		return "deactivate"
	case EventRun:
		return "run"
	default:
		return "unknown"
	}
}

// Event is an immutable record of a trigger-install, deactivate, or run
// occurrence.
type Event struct {
	ID      ids.EventID `json:"id"`
	Kind    EventKind   `json:"kind"`
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Result  *TaskResult `json:"result,omitempty"`
	ErrKind string      `json:"err_kind,omitempty"`
	ErrMsg  string      `json:"err_msg,omitempty"`
}

// NewEvent constructs an Event carrying a successful TaskResult.
func NewEvent(kind EventKind, start, end time.Time, result TaskResult) Event {
	return Event{ID: ids.NewEventID(), Kind: kind, Start: start, End: end, Result: &result}
}

// NewEventErr constructs an Event carrying a failure.
func NewEventErr(kind EventKind, start, end time.Time, err error) Event {
	ev := Event{ID: ids.NewEventID(), Kind: kind, Start: start, End: end, ErrMsg: err.Error()}
	if ke, ok := err.(interface{ ErrKind() string }); ok {
		ev.ErrKind = ke.ErrKind()
	}
	return ev
}

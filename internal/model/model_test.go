package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskBody_Equal(t *testing.T) {
	a := TaskBody{Kind: TaskBodyCommand, Command: &CommandSpec{Cmd: "echo", Args: []string{"hi"}}}
	b := TaskBody{Kind: TaskBodyCommand, Command: &CommandSpec{Cmd: "echo", Args: []string{"hi"}}}
	c := TaskBody{Kind: TaskBodyCommand, Command: &CommandSpec{Cmd: "echo", Args: []string{"bye"}}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestTaskSpec_Equal(t *testing.T) {
	spec := TaskSpec{
		Name:     "job",
		Task:     TaskBody{Kind: TaskBodyFileUpdate, File: &FileSpec{Destination: "~/f", Source: "http://x"}},
		Triggers: []TriggerSpec{{Kind: TriggerCron, Expr: "* * * * * *"}},
	}
	same := spec
	assert.True(t, spec.Equal(same))

	changed := spec
	changed.Name = "other"
	assert.False(t, spec.Equal(changed))
}

func TestTriggersEqual_OrderMatters(t *testing.T) {
	a := []TriggerSpec{{Kind: TriggerCron, Expr: "0 * * * * *"}, {Kind: TriggerImmediate}}
	b := []TriggerSpec{{Kind: TriggerImmediate}, {Kind: TriggerCron, Expr: "0 * * * * *"}}

	assert.False(t, TriggersEqual(a, b))
	assert.True(t, TriggersEqual(a, a))
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "trigger_install", EventTriggerInstall.String())
	assert.Equal(t, "deactivate", EventDeactivate.String())
	assert.Equal(t, "run", EventRun.String())
}

func TestNewEvent_CarriesResult(t *testing.T) {
	start := time.Now()
	end := start.Add(time.Second)
	ev := NewEvent(EventRun, start, end, TaskResult{Message: "ok"})

	assert.Equal(t, EventRun, ev.Kind)
	assert.NotNil(t, ev.Result)
	assert.Equal(t, "ok", ev.Result.Message)
	assert.Empty(t, ev.ErrKind)
}

func TestNewEventErr_ExtractsErrKind(t *testing.T) {
	start := time.Now()
	end := start.Add(time.Second)
	err := &ErrIoError{Msg: "disk full"}

	ev := NewEventErr(EventRun, start, end, err)

	assert.Nil(t, ev.Result)
	assert.Equal(t, "IoError", ev.ErrKind)
	assert.Equal(t, "disk full", ev.ErrMsg)
}

func TestNewEventErr_PlainErrorHasNoKind(t *testing.T) {
	ev := NewEventErr(EventRun, time.Now(), time.Now(), errors.New("boom"))
	assert.Empty(t, ev.ErrKind)
	assert.Equal(t, "boom", ev.ErrMsg)
}

func TestTaskSpecError_Message(t *testing.T) {
	err := &TaskSpecError{Kind: InvalidCronExpression, Expr: "bogus"}
	assert.Contains(t, err.Error(), "bogus")
	assert.Equal(t, "TaskSpecError", err.ErrKind())
}

func TestWrapIoError_NilPassthrough(t *testing.T) {
	assert.Nil(t, WrapIoError(nil))
	wrapped := WrapIoError(errors.New("x"))
	assert.Error(t, wrapped)
	var ioErr *ErrIoError
	assert.ErrorAs(t, wrapped, &ioErr)
}

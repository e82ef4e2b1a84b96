package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/model"
)

func TestOk(t *testing.T) {
	r := Ok()
	assert.Equal(t, RespOk, r.Kind)
}

func TestErr(t *testing.T) {
	r := Err("boom")
	assert.Equal(t, RespError, r.Kind)
	assert.Equal(t, "boom", r.Message)
}

func TestObjectInto_RoundTrip(t *testing.T) {
	taskID := ids.NewTaskID()
	specs := map[ids.TaskID]model.TaskSpec{
		taskID: {Name: "job", Triggers: []model.TriggerSpec{{Kind: model.TriggerImmediate}}},
	}

	resp, err := Object(specs)
	require.NoError(t, err)
	assert.Equal(t, RespObject, resp.Kind)

	var decoded map[ids.TaskID]model.TaskSpec
	require.NoError(t, Into(resp, &decoded))
	assert.Equal(t, specs, decoded)
}

func TestInto_ErrorResponse(t *testing.T) {
	var dst map[ids.TaskID]model.TaskSpec
	err := Into(Err("agent not found"), &dst)
	assert.ErrorContains(t, err, "agent not found")
}

func TestInto_UnexpectedKind(t *testing.T) {
	var dst map[ids.TaskID]model.TaskSpec
	err := Into(Ok(), &dst)
	assert.Error(t, err)
}

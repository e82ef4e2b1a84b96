package ids

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentID_Unique(t *testing.T) {
	a := NewAgentID()
	b := NewAgentID()
	assert.NotEqual(t, a, b)
}

func TestAgentID_RoundTripText(t *testing.T) {
	original := NewAgentID()

	text, err := original.MarshalText()
	require.NoError(t, err)

	var parsed AgentID
	require.NoError(t, parsed.UnmarshalText(text))
	assert.Equal(t, original, parsed)
}

func TestParseAgentID(t *testing.T) {
	original := NewAgentID()
	parsed, err := ParseAgentID(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestParseAgentID_Invalid(t *testing.T) {
	_, err := ParseAgentID("not-a-uuid")
	assert.Error(t, err)
}

func TestTaskID_UsableAsJSONMapKey(t *testing.T) {
	id := NewTaskID()
	m := map[TaskID]string{id: "spec"}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[TaskID]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "spec", decoded[id])
}

func TestEventID_String(t *testing.T) {
	id := NewEventID()
	assert.Len(t, id.String(), 36)
}

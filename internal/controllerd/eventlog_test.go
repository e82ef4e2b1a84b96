package controllerd

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/model"
)

func TestEventLogStore_Persist_AppendsCRLFLines(t *testing.T) {
	dir := t.TempDir()
	store := NewEventLogStore(dir)

	agentID := ids.NewAgentID()
	taskID := ids.NewTaskID()
	ev := model.NewEvent(model.EventRun, time.Now(), time.Now(), model.TaskResult{Message: "ok"})

	require.NoError(t, store.Persist(agentID, map[ids.TaskID][]model.Event{taskID: {ev}}))

	path := filepath.Join(dir, agentID.String(), taskID.String()+".json")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(string(raw), "\r\n"))
	lines := bufio.NewScanner(strings.NewReader(string(raw)))
	count := 0
	for lines.Scan() {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestEventLogStore_Persist_AppendsAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	store := NewEventLogStore(dir)

	agentID := ids.NewAgentID()
	taskID := ids.NewTaskID()
	ev := model.NewEvent(model.EventRun, time.Now(), time.Now(), model.TaskResult{})

	require.NoError(t, store.Persist(agentID, map[ids.TaskID][]model.Event{taskID: {ev}}))
	require.NoError(t, store.Persist(agentID, map[ids.TaskID][]model.Event{taskID: {ev}}))

	path := filepath.Join(dir, agentID.String(), taskID.String()+".json")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\r\n"), "\r\n")
	assert.Len(t, lines, 2)
}

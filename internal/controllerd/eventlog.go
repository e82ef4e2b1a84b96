package controllerd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/model"
)

// EventLogStore appends reported events to one JSON-lines file per
// (agent, task) pair, under logsDir/<agent_id>/<task_id>.json. Lines are
// CRLF-terminated, matching the original implementation's format.
type EventLogStore struct {
	logsDir string
}

// NewEventLogStore constructs an EventLogStore rooted at logsDir.
func NewEventLogStore(logsDir string) *EventLogStore {
	return &EventLogStore{logsDir: logsDir}
}

// Persist appends each task's newly reported events to its log file.
func (s *EventLogStore) Persist(agentID ids.AgentID, log map[ids.TaskID][]model.Event) error {
	for taskID, events := range log {
		if err := s.persistOne(agentID, taskID, events); err != nil {
			return err
		}
	}
	return nil
}

func (s *EventLogStore) persistOne(agentID ids.AgentID, taskID ids.TaskID, events []model.Event) error {
	dir := filepath.Join(s.logsDir, agentID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("controllerd: create log dir %q: %w", dir, err)
	}

	path := filepath.Join(dir, taskID.String()+".json")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("controllerd: open log file %q: %w", path, err)
	}
	defer f.Close()

	for _, ev := range events {
		line, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("controllerd: marshal event: %w", err)
		}
		if _, err := f.Write(append(line, '\r', '\n')); err != nil {
			return fmt.Errorf("controllerd: write log file %q: %w", path, err)
		}
	}
	return nil
}

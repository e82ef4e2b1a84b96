// Package agentdb implements the controller's on-disk agent database: a
// single JSON file, pretty-printed, mapping agent id to its configuration
// and task set, rewritten whole on every mutation.
package agentdb

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/model"
)

// AgentConfig is the controller-visible configuration for one agent.
type AgentConfig struct {
	Name           string `json:"name"`
	Server         string `json:"server"`
	Key            string `json:"key"`
	Pull           bool   `json:"pull"`
	PullInterval   uint64 `json:"pull_interval"`
	Report         bool   `json:"report"`
	ReportInterval uint64 `json:"report_interval"`
}

// AgentData is one agent's full record: its config (flattened into the
// enclosing JSON object, matching the original's #[serde(flatten)]) plus
// its task set.
type AgentData struct {
	Config AgentConfig                      `json:"-"`
	Tasks  map[ids.TaskID]model.TaskSpec `json:"tasks"`
}

// MarshalJSON flattens Config's fields alongside Tasks, matching the
// original Rust struct's #[serde(flatten)] on its config field.
func (d AgentData) MarshalJSON() ([]byte, error) {
	type flattened struct {
		AgentConfig
		Tasks map[ids.TaskID]model.TaskSpec `json:"tasks"`
	}
	return json.Marshal(flattened{AgentConfig: d.Config, Tasks: d.Tasks})
}

// UnmarshalJSON reverses MarshalJSON.
func (d *AgentData) UnmarshalJSON(data []byte) error {
	type flattened struct {
		AgentConfig
		Tasks map[ids.TaskID]model.TaskSpec `json:"tasks"`
	}
	var f flattened
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	d.Config = f.AgentConfig
	d.Tasks = f.Tasks
	return nil
}

// DB is the controller's in-memory agent database, synced to file on every
// mutation.
type DB struct {
	mu    sync.Mutex
	file  string
	agent map[ids.AgentID]*AgentData
}

// New loads DB from file, or starts empty if the file is absent/unreadable.
func New(file string) *DB {
	db := &DB{file: file, agent: make(map[ids.AgentID]*AgentData)}
	if data, err := os.ReadFile(file); err == nil {
		var loaded map[ids.AgentID]*AgentData
		if json.Unmarshal(data, &loaded) == nil {
			db.agent = loaded
		}
	}
	return db
}

// ListAgents returns every known agent id.
func (db *DB) ListAgents() []ids.AgentID {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]ids.AgentID, 0, len(db.agent))
	for id := range db.agent {
		out = append(out, id)
	}
	return out
}

// InsertConfig creates a new agent record, returning its freshly generated id.
func (db *DB) InsertConfig(cfg AgentConfig) ids.AgentID {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := ids.NewAgentID()
	db.agent[id] = &AgentData{Config: cfg, Tasks: make(map[ids.TaskID]model.TaskSpec)}
	db.sync()
	return id
}

// UpdateConfig replaces an existing agent's config. Reports whether the
// agent existed.
func (db *DB) UpdateConfig(id ids.AgentID, cfg AgentConfig) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.agent[id]
	if !ok {
		return false
	}
	a.Config = cfg
	db.sync()
	return true
}

// Remove deletes an agent record, returning it if it existed.
func (db *DB) Remove(id ids.AgentID) (AgentData, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.agent[id]
	if !ok {
		return AgentData{}, false
	}
	delete(db.agent, id)
	db.sync()
	return *a, true
}

// GetAgent returns a copy of the agent record, if present.
func (db *DB) GetAgent(id ids.AgentID) (AgentData, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.agent[id]
	if !ok {
		return AgentData{}, false
	}
	return *a, true
}

// InsertAgentTask adds a new task to an agent's task set, returning its
// freshly generated id. Reports (zero-id, false) if the agent is unknown.
func (db *DB) InsertAgentTask(agentID ids.AgentID, spec model.TaskSpec) (ids.TaskID, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.agent[agentID]
	if !ok {
		return ids.TaskID{}, false
	}
	taskID := ids.NewTaskID()
	a.Tasks[taskID] = spec
	db.sync()
	return taskID, true
}

// UpdateAgentTask replaces an existing task's spec. Reports whether both ids
// were known.
func (db *DB) UpdateAgentTask(agentID ids.AgentID, taskID ids.TaskID, spec model.TaskSpec) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.agent[agentID]
	if !ok {
		return false
	}
	if _, ok := a.Tasks[taskID]; !ok {
		return false
	}
	a.Tasks[taskID] = spec
	db.sync()
	return true
}

// RemoveAgentTask deletes a task from an agent's task set, returning it if
// it existed.
func (db *DB) RemoveAgentTask(agentID ids.AgentID, taskID ids.TaskID) (model.TaskSpec, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.agent[agentID]
	if !ok {
		return model.TaskSpec{}, false
	}
	spec, ok := a.Tasks[taskID]
	if !ok {
		return model.TaskSpec{}, false
	}
	delete(a.Tasks, taskID)
	db.sync()
	return spec, true
}

// sync rewrites the whole database file. Must be called with mu held.
func (db *DB) sync() {
	data, err := json.MarshalIndent(db.agent, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(db.file, data, 0o640); err != nil {
		fmt.Fprintf(os.Stderr, "agentdb: sync failed: %v\n", err)
	}
}

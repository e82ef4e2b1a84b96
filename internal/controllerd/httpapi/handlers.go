package httpapi

import (
	"encoding/json"
	"net/http"

	"fleetcron.dev/fleetcron/internal/controllerd/agentdb"
	"fleetcron.dev/fleetcron/internal/model"
)

func listAgents(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, db.ListAgents())
	}
}

func createAgent(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg agentdb.AgentConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		id := db.InsertConfig(cfg)
		writeJSON(w, http.StatusOK, id.String())
	}
}

// getAgentConfig is the one route that returns 404 (not 400) on a missing
// agent — preserved verbatim as the original's one exception to the
// 400-on-missing pattern used everywhere else in this API.
func getAgentConfig(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseAgentID(w, r)
		if !ok {
			return
		}
		data, ok := db.GetAgent(id)
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, data.Config)
	}
}

func putAgentConfig(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseAgentID(w, r)
		if !ok {
			return
		}
		var cfg agentdb.AgentConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		if !db.UpdateConfig(id, cfg) {
			http.Error(w, "not found", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func deleteAgent(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseAgentID(w, r)
		if !ok {
			return
		}
		if _, ok := db.Remove(id); !ok {
			http.Error(w, "not found", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func listAgentTasks(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseAgentID(w, r)
		if !ok {
			return
		}
		data, ok := db.GetAgent(id)
		if !ok {
			http.Error(w, "agent not found", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, data.Tasks)
	}
}

func createAgentTask(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseAgentID(w, r)
		if !ok {
			return
		}
		var spec model.TaskSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		taskID, ok := db.InsertAgentTask(id, spec)
		if !ok {
			http.Error(w, "agent not found", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, taskID.String())
	}
}

func getAgentTask(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID, ok := parseAgentID(w, r)
		if !ok {
			return
		}
		taskID, ok := parseTaskID(w, r)
		if !ok {
			return
		}
		data, ok := db.GetAgent(agentID)
		if !ok {
			http.Error(w, "agent not found", http.StatusBadRequest)
			return
		}
		spec, ok := data.Tasks[taskID]
		if !ok {
			http.Error(w, "task not found", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, spec)
	}
}

func putAgentTask(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID, ok := parseAgentID(w, r)
		if !ok {
			return
		}
		taskID, ok := parseTaskID(w, r)
		if !ok {
			return
		}
		var spec model.TaskSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		if !db.UpdateAgentTask(agentID, taskID, spec) {
			http.Error(w, "invalid agent id or task id", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func deleteAgentTask(db *agentdb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID, ok := parseAgentID(w, r)
		if !ok {
			return
		}
		taskID, ok := parseTaskID(w, r)
		if !ok {
			return
		}
		if _, ok := db.RemoveAgentTask(agentID, taskID); !ok {
			http.Error(w, "invalid agent id or task id", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

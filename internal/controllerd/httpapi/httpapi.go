// Package httpapi implements the controller's administrative HTTP/JSON API
// over the agent database: a trivial CRUD surface, deliberately not the
// focus of this design's engineering effort.
package httpapi

import (
	"encoding/json"
	"net/http"

	"fleetcron.dev/fleetcron/internal/controllerd/agentdb"
	"fleetcron.dev/fleetcron/internal/ids"
)

// NewMux builds the admin API's request router.
func NewMux(db *agentdb.DB) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /agent", listAgents(db))
	mux.HandleFunc("POST /agent", createAgent(db))
	mux.HandleFunc("GET /agent/{agent_id}", getAgentConfig(db))
	mux.HandleFunc("PUT /agent/{agent_id}", putAgentConfig(db))
	mux.HandleFunc("DELETE /agent/{agent_id}", deleteAgent(db))
	mux.HandleFunc("GET /agent/{agent_id}/task", listAgentTasks(db))
	mux.HandleFunc("POST /agent/{agent_id}/task", createAgentTask(db))
	mux.HandleFunc("GET /agent/{agent_id}/task/{task_id}", getAgentTask(db))
	mux.HandleFunc("PUT /agent/{agent_id}/task/{task_id}", putAgentTask(db))
	mux.HandleFunc("DELETE /agent/{agent_id}/task/{task_id}", deleteAgentTask(db))

	return withCORS(mux)
}

// withCORS mirrors the original's permissive allow-all CORS policy.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseAgentID parses the {agent_id} path value. Callers get a 400 on a bad
// UUID (matching the original's blanket "bad request" behaviour for
// malformed path params).
func parseAgentID(w http.ResponseWriter, r *http.Request) (ids.AgentID, bool) {
	id, err := ids.ParseAgentID(r.PathValue("agent_id"))
	if err != nil {
		http.Error(w, "invalid agent_id", http.StatusBadRequest)
		return ids.AgentID{}, false
	}
	return id, true
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (ids.TaskID, bool) {
	id, err := ids.ParseTaskID(r.PathValue("task_id"))
	if err != nil {
		http.Error(w, "invalid task_id", http.StatusBadRequest)
		return ids.TaskID{}, false
	}
	return id, true
}

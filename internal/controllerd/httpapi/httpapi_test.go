package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcron.dev/fleetcron/internal/controllerd/agentdb"
	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/model"
)

func newTestMux(t *testing.T) (http.Handler, *agentdb.DB) {
	t.Helper()
	db := agentdb.New(filepath.Join(t.TempDir(), "agents.json"))
	return NewMux(db), db
}

func doJSON(mux http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListAgents(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(mux, http.MethodPost, "/agent", agentdb.AgentConfig{Name: "host-a"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(mux, http.MethodGet, "/agent", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var ids []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
	assert.Len(t, ids, 1)
}

func TestGetAgentConfig_MissingReturns404(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := doJSON(mux, http.MethodGet, "/agent/"+ids.NewAgentID().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAgentTask_MissingAgentReturns400(t *testing.T) {
	mux, _ := newTestMux(t)
	path := "/agent/" + ids.NewAgentID().String() + "/task/" + ids.NewTaskID().String()
	rec := doJSON(mux, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAgentConfig_CRUD(t *testing.T) {
	mux, db := newTestMux(t)
	agentID := db.InsertConfig(agentdb.AgentConfig{Name: "host-a"})

	rec := doJSON(mux, http.MethodGet, "/agent/"+agentID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg agentdb.AgentConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "host-a", cfg.Name)

	rec = doJSON(mux, http.MethodPut, "/agent/"+agentID.String(), agentdb.AgentConfig{Name: "renamed"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(mux, http.MethodDelete, "/agent/"+agentID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(mux, http.MethodGet, "/agent/"+agentID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAgentTask_CRUD(t *testing.T) {
	mux, db := newTestMux(t)
	agentID := db.InsertConfig(agentdb.AgentConfig{Name: "host-a"})

	rec := doJSON(mux, http.MethodPost, "/agent/"+agentID.String()+"/task", model.TaskSpec{Name: "job"})
	require.Equal(t, http.StatusOK, rec.Code)
	var taskID string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &taskID))

	rec = doJSON(mux, http.MethodGet, "/agent/"+agentID.String()+"/task/"+taskID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(mux, http.MethodPut, "/agent/"+agentID.String()+"/task/"+taskID, model.TaskSpec{Name: "renamed"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(mux, http.MethodDelete, "/agent/"+agentID.String()+"/task/"+taskID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_PreflightHandled(t *testing.T) {
	mux, _ := newTestMux(t)
	req := httptest.NewRequest(http.MethodOptions, "/agent", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParseAgentID_InvalidUUIDReturns400(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := doJSON(mux, http.MethodGet, "/agent/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

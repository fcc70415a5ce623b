package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/provreg/internal/adapters/sqlite"
	"github.com/example/provreg/internal/app"
	"github.com/example/provreg/internal/core/registry"
	"github.com/example/provreg/internal/db"
	"github.com/example/provreg/internal/server"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	repo := sqlite.NewRegistryRepository(database)
	svc := app.NewRegistryService(repo, registry.NewFakeClock(1700000000))
	return server.New(svc, "127.0.0.1:0", zap.NewNop())
}

func doJSON(t *testing.T, s *server.Server, method, path, identity, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if identity != "" {
		req.Header.Set(server.IdentityHeader, identity)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestInitEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/init", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"identity":"alice"`)

	// one-shot
	rec = doJSON(t, s, http.MethodPost, "/init", "bob", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// missing identity header
	rec = doJSON(t, s, http.MethodPost, "/init", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFullProtocolOverHTTP(t *testing.T) {
	s := newTestServer(t)
	h1 := strings.Repeat("11", 32)
	h2 := strings.Repeat("22", 32)

	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/init", "alice", "").Code)

	rec := doJSON(t, s, http.MethodPost, "/tasks", "alice", `{"task_id":"task-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// no versions yet
	rec = doJSON(t, s, http.MethodGet, "/tasks/task-1/latest", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// first publish lands at version 2
	rec = doJSON(t, s, http.MethodPost, "/tasks/task-1/versions", "alice", `{"hash":"`+h1+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var published struct {
		Version   uint64 `json:"version"`
		Hash      string `json:"hash"`
		Timestamp uint64 `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &published))
	assert.Equal(t, uint64(2), published.Version)
	assert.Equal(t, h1, published.Hash)
	assert.Equal(t, uint64(1700000000), published.Timestamp)

	// non-owner rejected, state unchanged
	rec = doJSON(t, s, http.MethodPost, "/tasks/task-1/versions", "mallory", `{"hash":"`+h2+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/tasks/task-1/latest", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), h1)

	// second publish, then history has both
	rec = doJSON(t, s, http.MethodPost, "/tasks/task-1/versions", "alice", `{"hash":"`+h2+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/tasks/task-1/versions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []struct {
		Version uint64 `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, uint64(2), history[0].Version)
	assert.Equal(t, uint64(3), history[1].Version)

	// exact version lookup
	rec = doJSON(t, s, http.MethodGet, "/tasks/task-1/versions/2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), h1)

	// version 1 is the placeholder with no stored record
	rec = doJSON(t, s, http.MethodGet, "/tasks/task-1/versions/1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/init", "alice", "").Code)
	require.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, "/tasks", "alice", `{"task_id":"task-1"}`).Code)

	tests := []struct {
		name     string
		method   string
		path     string
		identity string
		body     string
		want     int
	}{
		{"duplicate task", http.MethodPost, "/tasks", "alice", `{"task_id":"task-1"}`, http.StatusConflict},
		{"unknown task read", http.MethodGet, "/tasks/ghost/latest", "", "", http.StatusNotFound},
		{"unknown task publish", http.MethodPost, "/tasks/ghost/versions", "alice", `{"hash":"` + strings.Repeat("00", 32) + `"}`, http.StatusNotFound},
		{"non-owner register", http.MethodPost, "/tasks", "mallory", `{"task_id":"task-2"}`, http.StatusForbidden},
		{"short hash", http.MethodPost, "/tasks/task-1/versions", "alice", `{"hash":"abcd"}`, http.StatusBadRequest},
		{"bad version number", http.MethodGet, "/tasks/task-1/versions/zero", "", "", http.StatusBadRequest},
		{"empty task id", http.MethodPost, "/tasks", "alice", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, tt.method, tt.path, tt.identity, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuditEndpoint(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/init", "alice", "").Code)
	require.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, "/tasks", "alice", `{"task_id":"task-1"}`).Code)

	rec := doJSON(t, s, http.MethodGet, "/audit?limit=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []struct {
		Op     string `json:"op"`
		Caller string `json:"caller"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "register_task", entries[0].Op)
	assert.Equal(t, "alice", entries[0].Caller)
}

func TestOwnerEndpointUninitialized(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/owner", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"initialized":false`)
}

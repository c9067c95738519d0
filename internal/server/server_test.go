package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kilupskalvis/gitsim/internal/logging"
	"github.com/kilupskalvis/gitsim/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer starts the playground API on an httptest server.
func newTestServer(t *testing.T, cfg *ServerConfig) (*httptest.Server, *SessionManager) {
	t.Helper()
	logger := logging.NewNop()
	sm := NewSessionManager(DefaultManagerConfig(), logger)
	h, cleanup := Handler(sm, cfg, prometheus.NewRegistry(), logger)
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.Close()
		cleanup()
		sm.Close()
	})
	return srv, sm
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/session", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["sessionId"])
	return body["sessionId"]
}

// decodedResponse mirrors commandResponse with raw events for inspection.
type decodedResponse struct {
	Output    string            `json:"output"`
	Error     string            `json:"error"`
	Events    []json.RawMessage `json:"events"`
	Selection *models.Selection `json:"selection"`
	Clear     bool              `json:"clear"`
}

func postCommand(t *testing.T, srv *httptest.Server, id, command string) decodedResponse {
	t.Helper()
	body, err := json.Marshal(commandRequest{Command: command})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/session/"+id+"/command", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out decodedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestCommand_Flow(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := createSession(t, srv)

	out := postCommand(t, srv, id, "git commit")
	assert.Contains(t, out.Error, "fatal: not a git repository")
	assert.Empty(t, out.Events)

	out = postCommand(t, srv, id, "git init")
	assert.Equal(t, "Initialized empty Git repository", out.Output)
	assert.Empty(t, out.Error)
	require.NotNil(t, out.Selection)
	assert.Equal(t, "master", out.Selection.Activated)
	require.Len(t, out.Events, 2)
	assert.Contains(t, string(out.Events[0]), `"kind":"branch_created"`)

	out = postCommand(t, srv, id, "git commit")
	assert.Empty(t, out.Error)
	require.Len(t, out.Events, 2)
	assert.Contains(t, string(out.Events[0]), `"position":{"x":130,"y":30}`)

	out = postCommand(t, srv, id, "git checkout -b dev")
	assert.Equal(t, "Switched to branch 'dev'", out.Output)

	out = postCommand(t, srv, id, "clear")
	assert.True(t, out.Clear)
}

func TestCommand_BadBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := createSession(t, srv)

	resp, err := http.Post(srv.URL+"/api/session/"+id+"/command", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, path := range []string{"/graph", "/svg"} {
		resp, err := http.Get(srv.URL + "/api/session/missing" + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestGraphAndSVG(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := createSession(t, srv)
	for _, c := range []string{"git init", "git commit", "git branch hotfix", "git checkout hotfix", "git commit", "git merge master"} {
		out := postCommand(t, srv, id, c)
		require.Empty(t, out.Error, c)
	}

	resp, err := http.Get(srv.URL + "/api/session/" + id + "/graph")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap models.GraphSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.True(t, snap.Initialized)
	assert.Equal(t, "hotfix", snap.Selected)
	require.Len(t, snap.Branches, 2)
	assert.Len(t, snap.Branches[1].Commits, 2)
	require.Len(t, snap.Merges, 1)

	resp, err = http.Get(srv.URL + "/api/session/" + id + "/svg")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "<svg")
	assert.Equal(t, 3, strings.Count(string(body), "<circle "))
}

func TestDeleteSession(t *testing.T) {
	srv, sm := newTestServer(t, nil)
	id := createSession(t, srv)
	require.Equal(t, 1, sm.Len())

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/session/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, sm.Len())

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTerminal_RoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := createSession(t, srv)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/session/" + id + "/terminal"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("git init")))
	var out decodedResponse
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "Initialized empty Git repository", out.Output)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("git branch")))
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "* master", out.Output)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("git push")))
	out = decodedResponse{}
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "Is not implemented or is not a git command. See 'help'.", out.Error)
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := createSession(t, srv)
	postCommand(t, srv, id, "git commit")
	postCommand(t, srv, id, "git init")

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	assert.Contains(t, text, `gitsim_commands_total{command="commit",outcome="not_a_repository"} 1`)
	assert.Contains(t, text, `gitsim_commands_total{command="init",outcome="ok"} 1`)
	assert.Contains(t, text, "gitsim_sessions_active 1")
	assert.Contains(t, text, `route="/api/session/{id}/command"`)
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, &ServerConfig{MaxRequestBody: 1024, RequestsPerMinute: 2})

	createSession(t, srv)
	createSession(t, srv)

	resp, err := http.Post(srv.URL+"/api/session", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	// Health checks are not limited
	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// dialTerminal opens the terminal socket of session id.
func dialTerminal(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/session/" + id + "/terminal"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTerminal_RateLimitsFrames(t *testing.T) {
	srv, sm := newTestServer(t, &ServerConfig{MaxRequestBody: 1024, RequestsPerMinute: 3})

	// Session creation and the upgrade use two of the three requests
	id := createSession(t, srv)
	conn := dialTerminal(t, srv, id)

	lines := []string{"git init", "git commit", "git commit", "git commit", "git commit"}
	var accepted, limited int
	for _, line := range lines {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(line)))
		var reply map[string]interface{}
		require.NoError(t, conn.ReadJSON(&reply))
		if reply["error"] == "rate_limited" {
			limited++
			continue
		}
		accepted++
		assert.Equal(t, "Initialized empty Git repository", reply["output"])
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 4, limited)

	snap := sm.Snapshot(sm.GetSession(id))
	require.True(t, snap.Initialized)
	assert.Empty(t, snap.Branches[0].Commits, "limited frames must not run")
}

func TestTerminal_ClosedWhenSessionDeleted(t *testing.T) {
	srv, sm := newTestServer(t, nil)
	id := createSession(t, srv)
	conn := dialTerminal(t, srv, id)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("git init")))
	var out decodedResponse
	require.NoError(t, conn.ReadJSON(&out))
	require.Equal(t, "Initialized empty Git repository", out.Output)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/session/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("git commit")))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, sm.Len())
}

func TestSessionManager_ExecuteAfterDelete(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.Timeout = time.Minute
	sm := NewSessionManager(cfg, logging.NewNop())
	defer sm.Close()

	deleted, err := sm.CreateSession()
	require.NoError(t, err)
	require.True(t, sm.DeleteSession(deleted.ID))

	_, err = sm.Execute(deleted, "git init")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.False(t, sm.Snapshot(deleted).Initialized)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }
	reaped, err := sm.CreateSession()
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	require.Equal(t, 1, sm.reap())

	_, err = sm.Execute(reaped, "git init")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestRecovery_AfterPartialWrite(t *testing.T) {
	h := recoveryMiddleware(logging.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("partial"))
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestRecovery_BeforeWrite(t *testing.T) {
	h := recoveryMiddleware(logging.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestSessionManager_MaxSessions(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.MaxSessions = 1
	sm := NewSessionManager(cfg, logging.NewNop())
	defer sm.Close()

	_, err := sm.CreateSession()
	require.NoError(t, err)
	_, err = sm.CreateSession()
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestSessionManager_Reap(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.Timeout = time.Minute
	sm := NewSessionManager(cfg, logging.NewNop())
	defer sm.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	idle, err := sm.CreateSession()
	require.NoError(t, err)
	busy, err := sm.CreateSession()
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	_, err = sm.Execute(busy, "git init")
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, sm.reap())
	assert.Nil(t, sm.GetSession(idle.ID))
	assert.NotNil(t, sm.GetSession(busy.ID))
}

func TestSessionManager_SessionsAreIndependent(t *testing.T) {
	sm := NewSessionManager(DefaultManagerConfig(), logging.NewNop())
	defer sm.Close()

	a, err := sm.CreateSession()
	require.NoError(t, err)
	b, err := sm.CreateSession()
	require.NoError(t, err)

	_, err = sm.Execute(a, "git init")
	require.NoError(t, err)
	res, err := sm.Execute(b, "git commit")
	require.NoError(t, err)
	assert.Error(t, res.Err)
	assert.True(t, sm.Snapshot(a).Initialized)
	assert.False(t, sm.Snapshot(b).Initialized)
}

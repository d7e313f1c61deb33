package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ccboard/ccboard/internal/datastore"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(t *testing.T) (*Api, *mux.Router) {
	t.Helper()
	home := t.TempDir()
	session := `{"timestamp":"2026-01-10T09:00:00Z","message":{"role":"user","content":"fix bug","usage":{"input_tokens":10,"output_tokens":20}},"model":"claude-sonnet-4-20250514"}
{"timestamp":"2026-01-10T09:01:00Z","message":{"role":"assistant","content":"done","usage":{"input_tokens":30,"output_tokens":40}},"model":"claude-sonnet-4-20250514"}
`
	require.NoError(t, os.MkdirAll(filepath.Join(home, "projects", "demo-project"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "projects", "demo-project", "session-one.jsonl"), []byte(session), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte(`{"budget":{"monthly_budget_usd":100,"alert_threshold_pct":90}}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "claude_desktop_config_dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "claude_desktop_config.json"), []byte(`{"mcpServers":{"demo":{"command":"demo","args":[],"env":{"DEMO_API_KEY":"shh","OTHER":"visible"}}}}`), 0o644))

	store, err := datastore.New(datastore.Options{AssistantHome: home, CachePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	store.InitialLoad()

	a := New(store)
	t.Cleanup(a.Close)
	r := mux.NewRouter()
	a.MountRoutes(r)
	return a, r
}

func doGet(t *testing.T, r *mux.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetSessionsReturnsByProject(t *testing.T) {
	_, r := newTestApi(t)
	rec := doGet(t, r, "/api/sessions")
	require.Equal(t, http.StatusOK, rec.Code)

	var byProject map[string][]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byProject))
	assert.Contains(t, byProject, "demo-project")
}

func TestGetRecentSessionsHonorsN(t *testing.T) {
	_, r := newTestApi(t)
	rec := doGet(t, r, "/api/sessions/recent?n=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 1)
}

func TestGetSessionByIDNotFound(t *testing.T) {
	_, r := newTestApi(t)
	rec := doGet(t, r, "/api/sessions/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.NotEmpty(t, errResp.Error)
}

func TestGetSessionByIDWithContent(t *testing.T) {
	_, r := newTestApi(t)
	rec := doGet(t, r, "/api/sessions/session-one?content=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Metadata map[string]any `json:"metadata"`
		Content  struct {
			Messages []map[string]any `json:"Messages"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Content.Messages, 2)
}

func TestGetQuotaReflectsBudget(t *testing.T) {
	_, r := newTestApi(t)
	rec := doGet(t, r, "/api/quota")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetMcpMasksSecretEnvValues(t *testing.T) {
	_, r := newTestApi(t)
	rec := doGet(t, r, "/api/mcp")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "***")
	assert.NotContains(t, rec.Body.String(), "shh")
	assert.Contains(t, rec.Body.String(), "visible")
}

func TestGetHealthReportsUptimeAndDegradedState(t *testing.T) {
	_, r := newTestApi(t)
	rec := doGet(t, r, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.True(t, health.Degraded.StatsUnavailable)
}

func TestGetLiveSessionsExcludesStaleActivity(t *testing.T) {
	_, r := newTestApi(t)
	rec := doGet(t, r, "/api/sessions/live")
	require.Equal(t, http.StatusOK, rec.Code)

	var live []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &live))
	assert.Empty(t, live, "fixture session's timestamps are years in the past")
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"genassist/internal/config"
	"genassist/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: "memory"},
		AI:       config.AIConfig{OpenAI: config.OpenAIConfig{Model: "gpt-4o-mini"}},
		Workflow: config.WorkflowConfig{
			CompletionDelay: 50 * time.Millisecond,
			Scheduler:       "local",
			DefaultUserID:   "default-user",
		},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *AppContainer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, err := BuildContainer(context.Background(), testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return SetupRouter(c), c
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"GenAssist"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = doJSON(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"storage":"connected"}}`, w.Body.String())
}

func TestReadinessCheck_Failure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ready", ReadinessCheck(map[string]Pinger{
		"redis": PingFunc(func(ctx context.Context) error { return context.DeadlineExceeded }),
	}))

	w := doJSON(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis ping failed")
}

func TestSeedUserExists(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/users/default-user", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessCommandEndToEnd(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/process-command",
		`{"text":"Onboard John Doe as Senior Developer","isVoice":false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success    bool   `json:"success"`
		Message    string `json:"message"`
		WorkflowID string `json:"workflowId"`
		Intent     struct {
			Intent string `json:"intent"`
			Domain string `json:"domain"`
		} `json:"intent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "HR_Onboarding", resp.Intent.Intent)
	assert.Equal(t, "HR", resp.Intent.Domain)
	require.NotEmpty(t, resp.WorkflowID)

	var wf models.Workflow
	w = doJSON(r, http.MethodGet, "/api/workflows/"+resp.WorkflowID, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wf))
	assert.Contains(t, wf.Title, "John Doe")
	assert.Equal(t, "default-user", wf.UserID)

	require.Eventually(t, func() bool {
		w := doJSON(r, http.MethodGet, "/api/workflows/"+resp.WorkflowID, "")
		var got models.Workflow
		return json.Unmarshal(w.Body.Bytes(), &got) == nil && got.Status == models.StatusCompleted
	}, 3*time.Second, 20*time.Millisecond)

	w = doJSON(r, http.MethodGet, "/api/activity/recent?limit=abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.WorkflowHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionWorkflowCompleted, entries[0].Action)

	w = doJSON(r, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"completed":1,"inProgress":0,"voiceCommands":0,"totalToday":1}`, w.Body.String())
}

func TestProcessCommandRejectsBlankText(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/api/process-command", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Text input is required"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodOptions, "/api/process-command", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicReturnsJSONError(t *testing.T) {
	r, _ := newTestRouter(t)
	r.GET("/api/boom", func(c *gin.Context) { panic("boom") })

	w := doJSON(r, http.MethodGet, "/api/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, w.Body.String())
}

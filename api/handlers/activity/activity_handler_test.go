package activity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"genassist/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	gotLimit int
	err      error
}

func (s *stubReader) RecentActivity(ctx context.Context, limit int) ([]*models.WorkflowHistory, error) {
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []*models.WorkflowHistory{{ID: "h-1", WorkflowID: "wf-1", Action: models.ActionWorkflowStarted}}, nil
}

func TestParseLimit(t *testing.T) {
	cases := map[string]int{
		"":    10,
		"abc": 10,
		"0":   10,
		"-3":  10,
		"5":   5,
		"100": 100,
		"500": 100,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseLimit(raw), "limit=%q", raw)
	}
}

func TestRecent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := &stubReader{}
	r := gin.New()
	r.GET("/api/activity/recent", NewHandler(reader, nil).Recent)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activity/recent?limit=3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, reader.gotLimit)

	var entries []models.WorkflowHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "wf-1", entries[0].WorkflowID)

	reader.err = errors.New("boom")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activity/recent", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 10, reader.gotLimit)
}

type stubStreamer struct {
	served chan struct{}
}

func (s *stubStreamer) Serve(conn *websocket.Conn) {
	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"connected"}`))
	close(s.served)
	_ = conn.Close()
}

func TestStream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/unavailable", NewHandler(&stubReader{}, nil).Stream)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unavailable", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	streamer := &stubStreamer{served: make(chan struct{})}
	r.GET("/api/activity/stream", NewHandler(&stubReader{}, streamer).Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+srv.URL[len("http"):]+"/api/activity/stream", nil)
	require.NoError(t, err)
	defer conn.Close()

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"connected"}`, string(msg))
	<-streamer.served
}

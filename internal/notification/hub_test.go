package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"genassist/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T, hub *ActivityHub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env map[string]any
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestActivityHub_BroadcastsHistory(t *testing.T) {
	hub := NewActivityHub(WithHubLogger(zaptest.NewLogger(t)))
	srv := newTestServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "connected", readEnvelope(t, conn)["type"])
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(&models.WorkflowHistory{
		ID:         "h-1",
		WorkflowID: "wf-1",
		Action:     models.ActionWorkflowStarted,
		Status:     models.HistoryInfo,
		Message:    "Workflow initiated: Employee Onboarding - John Doe",
		Timestamp:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})

	env := readEnvelope(t, conn)
	assert.Equal(t, "activity", env["type"])
	data, ok := env["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "wf-1", data["workflowId"])
	assert.Equal(t, "workflow_started", data["action"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestActivityHub_PublishNeverBlocks(t *testing.T) {
	hub := NewActivityHub(WithBufferSize(1))
	sub := &subscriber{send: make(chan []byte, 1), done: make(chan struct{})}
	hub.subs[sub] = struct{}{}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Publish(&models.WorkflowHistory{ID: "h"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	assert.Len(t, sub.send, 1)
}

func TestActivityHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewActivityHub()
	hub.Publish(&models.WorkflowHistory{ID: "h"})
	hub.Publish(nil)
	assert.Equal(t, 0, hub.Count())
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"genassist/internal/worker/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap/zaptest"
)

type fakeRunner struct {
	called     bool
	workflowID string
	retErr     error
}

func (f *fakeRunner) RunCompletion(ctx context.Context, workflowID string) error {
	f.called = true
	f.workflowID = workflowID
	return f.retErr
}

func TestWorkflowHandlerHandleCompleteWorkflow_Success(t *testing.T) {
	runner := &fakeRunner{}
	h := NewWorkflowHandler(runner, zaptest.NewLogger(t))
	payload, _ := json.Marshal(tasks.CompleteWorkflowPayload{WorkflowID: "wf-1"})
	task := asynq.NewTask(tasks.TypeCompleteWorkflow, payload)
	if err := h.HandleCompleteWorkflow(context.Background(), task); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !runner.called || runner.workflowID != "wf-1" {
		t.Fatalf("runner not invoked correctly: called=%v id=%s", runner.called, runner.workflowID)
	}
}

func TestWorkflowHandlerHandleCompleteWorkflow_RunError(t *testing.T) {
	expectedErr := errors.New("boom")
	runner := &fakeRunner{retErr: expectedErr}
	h := NewWorkflowHandler(runner, zaptest.NewLogger(t))
	payload, _ := json.Marshal(tasks.CompleteWorkflowPayload{WorkflowID: "wf-2"})
	task := asynq.NewTask(tasks.TypeCompleteWorkflow, payload)
	if err := h.HandleCompleteWorkflow(context.Background(), task); !errors.Is(err, expectedErr) {
		t.Fatalf("expected error %v, got %v", expectedErr, err)
	}
}

func TestWorkflowHandlerHandleCompleteWorkflow_InvalidPayload(t *testing.T) {
	runner := &fakeRunner{}
	h := NewWorkflowHandler(runner, zaptest.NewLogger(t))

	for _, raw := range [][]byte{[]byte("not-json"), []byte(`{}`)} {
		task := asynq.NewTask(tasks.TypeCompleteWorkflow, raw)
		err := h.HandleCompleteWorkflow(context.Background(), task)
		if !errors.Is(err, asynq.SkipRetry) {
			t.Fatalf("expected SkipRetry for payload %q, got %v", raw, err)
		}
	}
	if runner.called {
		t.Fatalf("runner should not be called when payload invalid")
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"genassist/internal/worker/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// CompletionRunner 工作流完成执行器抽象，便于注入 mock
type CompletionRunner interface {
	RunCompletion(ctx context.Context, workflowID string) error
}

type WorkflowHandler struct {
	runner CompletionRunner
	logger *zap.Logger
}

func NewWorkflowHandler(runner CompletionRunner, logger *zap.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		runner: runner,
		logger: logger,
	}
}

// HandleCompleteWorkflow 处理到期的完成任务；RunCompletion 内部已把失败落库，这里只透传错误给 asynq 记录
func (h *WorkflowHandler) HandleCompleteWorkflow(ctx context.Context, t *asynq.Task) error {
	var p tasks.CompleteWorkflowPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("解析任务载荷失败: %v: %w", err, asynq.SkipRetry)
	}
	if p.WorkflowID == "" {
		return fmt.Errorf("任务载荷缺少 workflow_id: %w", asynq.SkipRetry)
	}

	h.logger.Info("开始执行工作流完成任务", zap.String("workflow_id", p.WorkflowID))

	if err := h.runner.RunCompletion(ctx, p.WorkflowID); err != nil {
		h.logger.Error("工作流完成任务失败",
			zap.String("workflow_id", p.WorkflowID),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("工作流完成任务结束", zap.String("workflow_id", p.WorkflowID))
	return nil
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"genassist/internal/config"
	"genassist/internal/infra"
	"genassist/internal/worker/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer asynq 客户端中本包用到的部分
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// TaskDeleter asynq Inspector 中本包用到的部分
type TaskDeleter interface {
	DeleteTask(queue, id string) error
	Close() error
}

// AsynqScheduler 基于 Redis 延迟队列的完成任务调度器，进程重启后任务不丢失
type AsynqScheduler struct {
	client    Enqueuer
	inspector TaskDeleter
	logger    *zap.Logger
}

// NewAsynqScheduler 创建调度器
func NewAsynqScheduler(cfg *config.RedisConfig, logger *zap.Logger) *AsynqScheduler {
	opt := infra.AsynqRedisOpt(cfg)
	return NewAsynqSchedulerWith(asynq.NewClient(opt), asynq.NewInspector(opt), logger)
}

// NewAsynqSchedulerWith 使用已有的客户端创建调度器
func NewAsynqSchedulerWith(client Enqueuer, inspector TaskDeleter, logger *zap.Logger) *AsynqScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqScheduler{
		client:    client,
		inspector: inspector,
		logger:    logger.Named("queue"),
	}
}

// ScheduleCompletion 入队延迟完成任务；同一工作流已有任务时先删除再入队
func (s *AsynqScheduler) ScheduleCompletion(ctx context.Context, workflowID string, delay time.Duration) error {
	data, err := json.Marshal(tasks.CompleteWorkflowPayload{WorkflowID: workflowID})
	if err != nil {
		return fmt.Errorf("序列化任务载荷失败: %w", err)
	}

	task := asynq.NewTask(tasks.TypeCompleteWorkflow, data)
	opts := []asynq.Option{
		asynq.ProcessIn(delay),
		asynq.TaskID(tasks.CompletionTaskID(workflowID)),
		asynq.Queue(tasks.QueueWorkflow),
		asynq.MaxRetry(0),
		asynq.Timeout(time.Minute),
	}

	_, err = s.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		if err := s.CancelCompletion(ctx, workflowID); err != nil {
			return err
		}
		_, err = s.client.EnqueueContext(ctx, task, opts...)
	}
	if err != nil {
		return fmt.Errorf("任务入队失败: %w", err)
	}

	s.logger.Debug("完成任务已入队",
		zap.String("workflow_id", workflowID),
		zap.Duration("delay", delay),
	)
	return nil
}

// CancelCompletion 删除尚未执行的完成任务
func (s *AsynqScheduler) CancelCompletion(ctx context.Context, workflowID string) error {
	err := s.inspector.DeleteTask(tasks.QueueWorkflow, tasks.CompletionTaskID(workflowID))
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("删除完成任务失败: %w", err)
}

// Close 关闭连接
func (s *AsynqScheduler) Close() error {
	return errors.Join(s.client.Close(), s.inspector.Close())
}

// Package workflow 根据分类结果创建工作流，并在固定延迟后将其推进到终态
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"genassist/internal/clock"
	"genassist/internal/intent"
	"genassist/internal/metrics"
	"genassist/internal/models"
	"genassist/internal/storage"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

// DefaultCompletionDelay 默认完成延迟
const DefaultCompletionDelay = 5 * time.Second

// 工作流结果文本
const (
	ResultCompleted = "Workflow completed successfully"
	ResultCancelled = "Workflow cancelled"
	ResultAborted   = "Workflow initiation failed"
)

var (
	// ErrWorkflowFinished 工作流已处于终态
	ErrWorkflowFinished = errors.New("工作流已结束")
	// ErrInvalidRequest 请求缺少分类结果
	ErrInvalidRequest = errors.New("缺少分类结果")
)

// Repository 编排器依赖的存储能力
type Repository interface {
	storage.WorkflowRepository
	storage.HistoryRepository
}

// EventPublisher 历史记录发布者
type EventPublisher interface {
	Publish(entry *models.WorkflowHistory)
}

// ExecuteRequest 执行请求
type ExecuteRequest struct {
	Classification *intent.Result
	UserID         string
	OriginalText   string
	IsVoice        bool
}

// ExecuteResult 执行结果
type ExecuteResult struct {
	WorkflowID string
	Message    string
	Workflow   *models.Workflow
}

// Service 工作流编排服务
type Service struct {
	repo      Repository
	templates *TemplateTable
	scheduler Scheduler
	clock     clock.Clock
	delay     time.Duration
	publisher EventPublisher
	logger    *zap.Logger

	// 串行化同一进程内的状态迁移
	mu deadlock.Mutex
}

// Option 服务选项
type Option func(*Service)

// WithClock 指定时钟
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithCompletionDelay 指定完成延迟
func WithCompletionDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithPublisher 指定历史记录发布者
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger 指定日志
func WithLogger(zl *zap.Logger) Option {
	return func(s *Service) { s.logger = zl }
}

// NewService 创建编排服务
func NewService(repo Repository, templates *TemplateTable, scheduler Scheduler, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		templates: templates,
		scheduler: scheduler,
		clock:     clock.NewReal(),
		delay:     DefaultCompletionDelay,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute 创建进行中的工作流、写入启动记录并调度完成任务，不等待完成
func (s *Service) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	cls := req.Classification
	if cls == nil {
		return nil, ErrInvalidRequest
	}

	rendered, err := s.templates.Render(cls.Intent, cls.Entities)
	if err != nil {
		return nil, err
	}
	status, err := transition(ctx, models.StatusPending, triggerStart)
	if err != nil {
		return nil, err
	}

	domain := cls.Domain
	if domain == "" {
		domain = cls.Intent.Domain()
	}
	entities := cls.Entities.Clone()
	if entities == nil {
		entities = models.Entities{}
	}

	now := s.clock.Now()
	wf := &models.Workflow{
		ID:           uuid.NewString(),
		Title:        rendered.Title,
		Description:  rendered.Description,
		Domain:       domain,
		Intent:       cls.Intent,
		Entities:     entities,
		Status:       status,
		UserID:       req.UserID,
		Progress:     0,
		Steps:        rendered.Steps,
		OriginalText: req.OriginalText,
		IsVoice:      req.IsVoice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateWorkflow(ctx, wf); err != nil {
		return nil, fmt.Errorf("创建工作流失败: %w", err)
	}
	if err := s.appendHistory(ctx, wf.ID, models.ActionWorkflowStarted, models.HistoryInfo,
		"Workflow initiated: "+wf.Title, now); err != nil {
		s.abort(ctx, wf)
		return nil, err
	}
	metrics.RecordWorkflowCreated(string(wf.Domain), string(wf.Intent))

	if err := s.scheduler.ScheduleCompletion(ctx, wf.ID, s.delay); err != nil {
		s.logger.Warn("调度完成任务失败",
			zap.String("workflow_id", wf.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("工作流已创建",
		zap.String("workflow_id", wf.ID),
		zap.String("intent", string(wf.Intent)),
		zap.String("user_id", wf.UserID),
	)

	return &ExecuteResult{
		WorkflowID: wf.ID,
		Message:    fmt.Sprintf("Workflow %s has been initiated and is now in progress.", wf.Title),
		Workflow:   wf.Clone(),
	}, nil
}

// CompleteWorkflow 将工作流推进到 completed，已处于终态时不做任何事
func (s *Service) CompleteWorkflow(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, err := s.repo.GetWorkflow(ctx, id)
	if err != nil {
		return err
	}
	if wf.Status.Terminal() {
		return nil
	}
	return s.finish(ctx, wf, triggerComplete, ResultCompleted,
		models.ActionWorkflowCompleted, models.HistorySuccess, "Workflow completed: "+wf.Title)
}

// FailWorkflow 将工作流标记为 failed，已处于终态时不做任何事
func (s *Service) FailWorkflow(ctx context.Context, id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, err := s.repo.GetWorkflow(ctx, id)
	if err != nil {
		return err
	}
	if wf.Status.Terminal() {
		return nil
	}
	return s.finish(ctx, wf, triggerFail, reason,
		models.ActionWorkflowFailed, models.HistoryError, "Workflow failed: "+reason)
}

// CancelWorkflow 取消尚未完成的工作流
func (s *Service) CancelWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, err := s.repo.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	if wf.Status.Terminal() {
		return nil, ErrWorkflowFinished
	}
	if err := s.scheduler.CancelCompletion(ctx, id); err != nil {
		s.logger.Warn("取消完成任务失败", zap.String("workflow_id", id), zap.Error(err))
	}
	if err := s.finish(ctx, wf, triggerFail, ResultCancelled,
		models.ActionWorkflowCancelled, models.HistoryError, "Workflow cancelled: "+wf.Title); err != nil {
		return nil, err
	}
	return wf, nil
}

// RunCompletion 完成任务入口，完成失败时转为 failed
func (s *Service) RunCompletion(ctx context.Context, id string) error {
	err := s.CompleteWorkflow(ctx, id)
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if failErr := s.FailWorkflow(ctx, id, "Workflow completion failed"); failErr != nil {
		s.logger.Error("标记工作流失败状态失败", zap.String("workflow_id", id), zap.Error(failErr))
	}
	return err
}

// abort 启动记录写入失败时将刚创建的工作流置为 failed
func (s *Service) abort(ctx context.Context, wf *models.Workflow) {
	next, err := transition(ctx, wf.Status, triggerFail)
	if err != nil {
		s.logger.Error("回滚工作流状态失败", zap.String("workflow_id", wf.ID), zap.Error(err))
		return
	}
	wf.Status = next
	wf.Result = ResultAborted
	wf.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateWorkflow(ctx, wf); err != nil {
		s.logger.Error("回滚工作流状态失败", zap.String("workflow_id", wf.ID), zap.Error(err))
		return
	}
	metrics.RecordWorkflowFinished(string(next), wf.UpdatedAt.Sub(wf.CreatedAt).Seconds())
}

func (s *Service) finish(ctx context.Context, wf *models.Workflow, trigger, result string,
	action models.HistoryAction, level models.HistoryStatus, message string) error {
	next, err := transition(ctx, wf.Status, trigger)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	wf.Status = next
	wf.Result = result
	wf.UpdatedAt = now
	if next == models.StatusCompleted {
		wf.Progress = 100
	}
	if err := s.repo.UpdateWorkflow(ctx, wf); err != nil {
		return fmt.Errorf("更新工作流失败: %w", err)
	}
	if err := s.appendHistory(ctx, wf.ID, action, level, message, now); err != nil {
		return err
	}

	metrics.RecordWorkflowFinished(string(next), now.Sub(wf.CreatedAt).Seconds())
	s.logger.Info("工作流已结束",
		zap.String("workflow_id", wf.ID),
		zap.String("status", string(next)),
	)
	return nil
}

func (s *Service) appendHistory(ctx context.Context, workflowID string, action models.HistoryAction,
	level models.HistoryStatus, message string, at time.Time) error {
	entry := &models.WorkflowHistory{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
		Action:     action,
		Status:     level,
		Message:    message,
		Timestamp:  at,
	}
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		return fmt.Errorf("写入历史记录失败: %w", err)
	}
	if s.publisher != nil {
		s.publisher.Publish(entry)
	}
	return nil
}

// GetWorkflow 查询单个工作流
func (s *Service) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	return s.repo.GetWorkflow(ctx, id)
}

// ListActive 查询进行中的工作流
func (s *Service) ListActive(ctx context.Context) ([]*models.Workflow, error) {
	return s.repo.ListActiveWorkflows(ctx)
}

// ListByUser 查询用户的工作流
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*models.Workflow, error) {
	return s.repo.ListWorkflowsByUser(ctx, userID)
}

// History 查询工作流的历史记录，工作流不存在时返回 storage.ErrNotFound
func (s *Service) History(ctx context.Context, id string) ([]*models.WorkflowHistory, error) {
	if _, err := s.repo.GetWorkflow(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, id)
}

// RecentActivity 查询最近动态
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]*models.WorkflowHistory, error) {
	return s.repo.ListRecentActivity(ctx, limit)
}

package workflow

import (
	"context"
	"sync"
	"time"

	"genassist/internal/clock"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

// CompletionHandler 完成任务到期时的回调
type CompletionHandler func(ctx context.Context, workflowID string) error

// Scheduler 延迟完成任务调度器，任务以工作流 ID 为键
type Scheduler interface {
	// ScheduleCompletion 在 delay 后触发完成，同一 ID 重复调度会替换旧任务
	ScheduleCompletion(ctx context.Context, workflowID string, delay time.Duration) error
	// CancelCompletion 取消尚未触发的任务，任务不存在时不报错
	CancelCompletion(ctx context.Context, workflowID string) error
}

type localTask struct {
	timer clock.Timer
	gen   uint64
}

// LocalScheduler 基于进程内定时器的调度器，进程退出后任务丢失
type LocalScheduler struct {
	clock   clock.Clock
	logger  *zap.Logger
	mu      deadlock.Mutex
	tasks   map[string]*localTask
	gen     uint64
	handler CompletionHandler
	wg      sync.WaitGroup
}

var _ Scheduler = (*LocalScheduler)(nil)

// NewLocalScheduler 创建进程内调度器
func NewLocalScheduler(clk clock.Clock, zl *zap.Logger) *LocalScheduler {
	if clk == nil {
		clk = clock.NewReal()
	}
	if zl == nil {
		zl = zap.NewNop()
	}
	return &LocalScheduler{
		clock:  clk,
		logger: zl.Named("scheduler"),
		tasks:  make(map[string]*localTask),
	}
}

// SetHandler 绑定到期回调，需在首次调度前调用
func (s *LocalScheduler) SetHandler(h CompletionHandler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

func (s *LocalScheduler) ScheduleCompletion(ctx context.Context, workflowID string, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.tasks[workflowID]; ok {
		old.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.tasks[workflowID] = &localTask{
		gen:   gen,
		timer: s.clock.AfterFunc(delay, func() { s.fire(workflowID, gen) }),
	}
	return nil
}

func (s *LocalScheduler) CancelCompletion(ctx context.Context, workflowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task, ok := s.tasks[workflowID]; ok {
		task.timer.Stop()
		delete(s.tasks, workflowID)
	}
	return nil
}

// Pending 尚未触发的任务数
func (s *LocalScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop 停止所有未触发的任务并等待执行中的回调结束
func (s *LocalScheduler) Stop() {
	s.mu.Lock()
	for id, task := range s.tasks {
		task.timer.Stop()
		delete(s.tasks, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *LocalScheduler) fire(workflowID string, gen uint64) {
	s.mu.Lock()
	task, ok := s.tasks[workflowID]
	if !ok || task.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, workflowID)
	handler := s.handler
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if handler == nil {
		s.logger.Warn("完成任务没有绑定处理函数", zap.String("workflow_id", workflowID))
		return
	}
	if err := handler(context.Background(), workflowID); err != nil {
		s.logger.Error("执行完成任务失败", zap.String("workflow_id", workflowID), zap.Error(err))
	}
}

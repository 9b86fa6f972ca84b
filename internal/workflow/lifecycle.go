package workflow

import (
	"context"
	"errors"
	"fmt"

	"genassist/internal/models"

	"github.com/qmuntal/stateless"
)

// 状态迁移触发器
const (
	triggerStart    = "start"
	triggerComplete = "complete"
	triggerFail     = "fail"
)

// ErrInvalidTransition 不允许的状态迁移
var ErrInvalidTransition = errors.New("非法的工作流状态迁移")

// newLifecycle 以给定状态构建状态机
// pending → in_progress → completed | failed，pending 也可直接进入终态
func newLifecycle(status models.WorkflowStatus) *stateless.StateMachine {
	sm := stateless.NewStateMachine(status)

	sm.Configure(models.StatusPending).
		Permit(triggerStart, models.StatusInProgress).
		Permit(triggerComplete, models.StatusCompleted).
		Permit(triggerFail, models.StatusFailed)

	sm.Configure(models.StatusInProgress).
		Permit(triggerComplete, models.StatusCompleted).
		Permit(triggerFail, models.StatusFailed)

	sm.Configure(models.StatusCompleted)
	sm.Configure(models.StatusFailed)

	return sm
}

// transition 计算触发后的状态
func transition(ctx context.Context, from models.WorkflowStatus, trigger string) (models.WorkflowStatus, error) {
	sm := newLifecycle(from)
	if err := sm.FireCtx(ctx, trigger); err != nil {
		return from, fmt.Errorf("%w: %s -(%s)->: %v", ErrInvalidTransition, from, trigger, err)
	}
	state, err := sm.State(ctx)
	if err != nil {
		return from, err
	}
	return state.(models.WorkflowStatus), nil
}

// Package storage 定义用户、工作流与历史记录的仓储接口及其实现。
package storage

import (
	"context"
	"errors"

	"genassist/internal/models"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("记录已存在")
)

// DefaultActivityLimit 最近动态默认条数
const DefaultActivityLimit = 10

// UserRepository 用户仓储
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// WorkflowRepository 工作流仓储
type WorkflowRepository interface {
	CreateWorkflow(ctx context.Context, wf *models.Workflow) error
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
	// UpdateWorkflow 整行覆盖，同一 ID 并发更新以最后一次写入为准
	UpdateWorkflow(ctx context.Context, wf *models.Workflow) error
	// ListActiveWorkflows 返回 pending / in_progress 状态的工作流，按创建时间倒序
	ListActiveWorkflows(ctx context.Context) ([]*models.Workflow, error)
	// ListWorkflowsByUser 返回用户的全部工作流，按创建时间倒序
	ListWorkflowsByUser(ctx context.Context, userID string) ([]*models.Workflow, error)
}

// HistoryRepository 历史记录仓储，只追加
type HistoryRepository interface {
	AppendHistory(ctx context.Context, entry *models.WorkflowHistory) error
	// ListHistory 按时间倒序返回某个工作流的历史
	ListHistory(ctx context.Context, workflowID string) ([]*models.WorkflowHistory, error)
	// ListRecentActivity 按时间倒序返回全局最近 limit 条历史，limit<=0 时取默认值
	ListRecentActivity(ctx context.Context, limit int) ([]*models.WorkflowHistory, error)
}

// Store 聚合仓储
type Store interface {
	UserRepository
	WorkflowRepository
	HistoryRepository
	Ping(ctx context.Context) error
	Close() error
}

package models

import (
	"time"
)

// WorkflowStatus 工作流状态
type WorkflowStatus string

const (
	StatusPending    WorkflowStatus = "pending"
	StatusInProgress WorkflowStatus = "in_progress"
	StatusCompleted  WorkflowStatus = "completed"
	StatusFailed     WorkflowStatus = "failed"
)

// Active 是否处于活跃状态
func (s WorkflowStatus) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// Terminal 是否为终态
func (s WorkflowStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// StepStatus 步骤状态，当前只作描述用途
type StepStatus string

const (
	StepPending StepStatus = "pending"
)

// Step 工作流步骤
type Step struct {
	Name   string     `json:"name" yaml:"name"`
	Status StepStatus `json:"status" yaml:"status"`
}

// Workflow 由指令创建的工作流记录
type Workflow struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Domain       Domain         `json:"domain"`
	Intent       Intent         `json:"intent"`
	Entities     Entities       `json:"entities"`
	Status       WorkflowStatus `json:"status"`
	UserID       string         `json:"userId"`
	Progress     int            `json:"progress"`
	Steps        []Step         `json:"steps"`
	Result       string         `json:"result,omitempty"`
	OriginalText string         `json:"originalText,omitempty"`
	IsVoice      bool           `json:"isVoice"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Clone 深拷贝
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	out := *w
	out.Entities = w.Entities.Clone()
	if w.Steps != nil {
		out.Steps = make([]Step, len(w.Steps))
		copy(out.Steps, w.Steps)
	}
	return &out
}

// HistoryAction 历史动作
type HistoryAction string

const (
	ActionWorkflowStarted   HistoryAction = "workflow_started"
	ActionWorkflowCompleted HistoryAction = "workflow_completed"
	ActionWorkflowFailed    HistoryAction = "workflow_failed"
	ActionWorkflowCancelled HistoryAction = "workflow_cancelled"
)

// HistoryStatus 历史级别
type HistoryStatus string

const (
	HistoryInfo    HistoryStatus = "info"
	HistorySuccess HistoryStatus = "success"
	HistoryError   HistoryStatus = "error"
)

// WorkflowHistory 工作流生命周期审计记录，只追加
type WorkflowHistory struct {
	ID         string        `json:"id"`
	WorkflowID string        `json:"workflowId"`
	Action     HistoryAction `json:"action"`
	Status     HistoryStatus `json:"status"`
	Message    string        `json:"message,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

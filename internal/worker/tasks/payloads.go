package tasks

// Task Types
const (
	TypeCompleteWorkflow = "workflow:complete"
)

// QueueWorkflow 工作流完成任务所在队列
const QueueWorkflow = "workflow"

// CompleteWorkflowPayload 工作流延迟完成任务载荷
type CompleteWorkflowPayload struct {
	WorkflowID string `json:"workflow_id"`
}

// CompletionTaskID 每个工作流最多一个待执行的完成任务
func CompletionTaskID(workflowID string) string {
	return "complete:" + workflowID
}

package commands

import (
	"context"
	"net/http"
	"strings"

	response "genassist/api/handlers/common"
	"genassist/internal/intent"
	"genassist/internal/logger"
	"genassist/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 错误文案
const (
	MsgTextRequired  = "Text input is required"
	MsgProcessFailed = "Failed to process command"
)

// Classifier 意图分类
type Classifier interface {
	Classify(ctx context.Context, text string) (*intent.Result, error)
}

// Executor 工作流执行
type Executor interface {
	Execute(ctx context.Context, req workflow.ExecuteRequest) (*workflow.ExecuteResult, error)
}

// Handler 指令处理 API
type Handler struct {
	classifier    Classifier
	executor      Executor
	defaultUserID string
}

// NewHandler 构造函数
func NewHandler(classifier Classifier, executor Executor, defaultUserID string) *Handler {
	return &Handler{classifier: classifier, executor: executor, defaultUserID: defaultUserID}
}

// ProcessCommandRequest 指令请求
type ProcessCommandRequest struct {
	Text    string `json:"text" example:"Onboard John Doe as Senior Developer"`
	IsVoice bool   `json:"isVoice"`
}

// ProcessCommandResponse 指令处理结果
type ProcessCommandResponse struct {
	Success    bool           `json:"success"`
	Intent     *intent.Result `json:"intent"`
	Message    string         `json:"message"`
	WorkflowID string         `json:"workflowId"`
}

// ProcessCommand 处理自然语言指令
// @Summary 处理文本或语音转写指令
// @Description 识别意图并创建进行中的工作流，工作流在后台延迟完成
// @Tags Commands
// @Accept json
// @Produce json
// @Param request body ProcessCommandRequest true "指令"
// @Success 200 {object} ProcessCommandResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/process-command [post]
func (h *Handler) ProcessCommand(c *gin.Context) {
	var req ProcessCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		response.Fail(c, http.StatusBadRequest, MsgTextRequired)
		return
	}

	ctx := c.Request.Context()
	log := logger.WithContext(ctx)

	cls, err := h.classifier.Classify(ctx, req.Text)
	if err != nil {
		log.Error("意图识别失败", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, MsgProcessFailed)
		return
	}

	res, err := h.executor.Execute(ctx, workflow.ExecuteRequest{
		Classification: cls,
		UserID:         h.defaultUserID,
		OriginalText:   req.Text,
		IsVoice:        req.IsVoice,
	})
	if err != nil {
		log.Error("执行工作流失败", zap.String("intent", string(cls.Intent)), zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, MsgProcessFailed)
		return
	}

	c.JSON(http.StatusOK, ProcessCommandResponse{
		Success:    true,
		Intent:     cls,
		Message:    res.Message,
		WorkflowID: res.WorkflowID,
	})
}

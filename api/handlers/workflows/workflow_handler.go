package workflows

import (
	"context"
	"errors"
	"net/http"

	response "genassist/api/handlers/common"
	"genassist/internal/logger"
	"genassist/internal/models"
	"genassist/internal/storage"
	"genassist/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MsgWorkflowFinished 工作流已结束时的错误文案
const MsgWorkflowFinished = "Workflow already finished"

// Service 工作流查询与取消
type Service interface {
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
	ListActive(ctx context.Context) ([]*models.Workflow, error)
	History(ctx context.Context, id string) ([]*models.WorkflowHistory, error)
	CancelWorkflow(ctx context.Context, id string) (*models.Workflow, error)
}

// Handler 工作流 API
type Handler struct {
	service Service
}

// NewHandler 构造函数
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Active 活跃工作流
// @Summary 列出进行中的工作流
// @Tags Workflows
// @Produce json
// @Success 200 {array} models.Workflow
// @Failure 500 {object} response.ErrorResponse
// @Router /api/workflows/active [get]
func (h *Handler) Active(c *gin.Context) {
	list, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.internalError(c, "查询活跃工作流失败", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// Get 查询单个工作流
// @Summary 查询工作流
// @Tags Workflows
// @Produce json
// @Param id path string true "工作流 ID"
// @Success 200 {object} models.Workflow
// @Failure 404 {object} response.ErrorResponse
// @Router /api/workflows/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	wf, err := h.service.GetWorkflow(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf)
}

// History 工作流历史
// @Summary 查询工作流生命周期记录
// @Tags Workflows
// @Produce json
// @Param id path string true "工作流 ID"
// @Success 200 {array} models.WorkflowHistory
// @Failure 404 {object} response.ErrorResponse
// @Router /api/workflows/{id}/history [get]
func (h *Handler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	if entries == nil {
		entries = []*models.WorkflowHistory{}
	}
	c.JSON(http.StatusOK, entries)
}

// Cancel 取消工作流
// @Summary 取消进行中的工作流
// @Tags Workflows
// @Produce json
// @Param id path string true "工作流 ID"
// @Success 200 {object} models.Workflow
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/workflows/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	wf, err := h.service.CancelWorkflow(c.Request.Context(), c.Param("id"))
	if errors.Is(err, workflow.ErrWorkflowFinished) {
		response.Fail(c, http.StatusConflict, MsgWorkflowFinished)
		return
	}
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf)
}

func (h *Handler) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, response.MsgWorkflowNotFound)
		return
	}
	h.internalError(c, "查询工作流失败", err)
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	logger.WithContext(c.Request.Context()).Error(msg, zap.String("workflow_id", c.Param("id")), zap.Error(err))
	response.Fail(c, http.StatusInternalServerError, response.MsgInternalError)
}

func nonNil(list []*models.Workflow) []*models.Workflow {
	if list == nil {
		return []*models.Workflow{}
	}
	return list
}

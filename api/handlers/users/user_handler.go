package users

import (
	"context"
	"errors"
	"net/http"

	response "genassist/api/handlers/common"
	"genassist/internal/logger"
	"genassist/internal/models"
	"genassist/internal/storage"
	"genassist/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MsgUsernameTaken 用户名已被占用
const MsgUsernameTaken = "Username already exists"

// Service 用户服务
type Service interface {
	Signup(ctx context.Context, req user.SignupRequest) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

// WorkflowLister 按用户查询工作流
type WorkflowLister interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Workflow, error)
}

// Handler 用户 API
type Handler struct {
	users     Service
	workflows WorkflowLister
}

// NewHandler 构造函数
func NewHandler(users Service, workflows WorkflowLister) *Handler {
	return &Handler{users: users, workflows: workflows}
}

// Signup 注册
// @Summary 注册用户
// @Tags Users
// @Accept json
// @Produce json
// @Param request body user.SignupRequest true "注册信息"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/users/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.users.Signup(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, u)
	case errors.Is(err, user.ErrInvalidSignup):
		response.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrDuplicate):
		response.Fail(c, http.StatusConflict, MsgUsernameTaken)
	default:
		logger.WithContext(c.Request.Context()).Error("用户注册失败", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, response.MsgInternalError)
	}
}

// Get 查询用户
// @Summary 查询用户
// @Tags Users
// @Produce json
// @Param id path string true "用户 ID"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorResponse
// @Router /api/users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Workflows 用户的工作流
// @Summary 列出用户的全部工作流
// @Tags Users
// @Produce json
// @Param id path string true "用户 ID"
// @Success 200 {array} models.Workflow
// @Failure 404 {object} response.ErrorResponse
// @Router /api/users/{id}/workflows [get]
func (h *Handler) Workflows(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.users.Get(ctx, id); err != nil {
		h.writeLookupError(c, err)
		return
	}
	list, err := h.workflows.ListByUser(ctx, id)
	if err != nil {
		logger.WithContext(ctx).Error("查询用户工作流失败", zap.String("user_id", id), zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, response.MsgInternalError)
		return
	}
	if list == nil {
		list = []*models.Workflow{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, response.MsgUserNotFound)
		return
	}
	logger.WithContext(c.Request.Context()).Error("查询用户失败", zap.Error(err))
	response.Fail(c, http.StatusInternalServerError, response.MsgInternalError)
}

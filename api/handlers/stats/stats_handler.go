package stats

import (
	"context"
	"net/http"

	response "genassist/api/handlers/common"
	"genassist/internal/logger"
	"genassist/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Reader 统计查询
type Reader interface {
	Stats(ctx context.Context, userID string) (*workflow.Stats, error)
}

// Handler 统计 API
type Handler struct {
	reader        Reader
	defaultUserID string
}

// NewHandler 构造函数
func NewHandler(reader Reader, defaultUserID string) *Handler {
	return &Handler{reader: reader, defaultUserID: defaultUserID}
}

// Get 当日统计
// @Summary 默认用户当日工作流统计
// @Tags Stats
// @Produce json
// @Success 200 {object} workflow.Stats
// @Failure 500 {object} response.ErrorResponse
// @Router /api/stats [get]
func (h *Handler) Get(c *gin.Context) {
	st, err := h.reader.Stats(c.Request.Context(), h.defaultUserID)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("查询统计失败", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, response.MsgInternalError)
		return
	}
	c.JSON(http.StatusOK, st)
}

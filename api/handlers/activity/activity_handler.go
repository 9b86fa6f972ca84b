package activity

import (
	"context"
	"net/http"
	"strconv"
	"time"

	response "genassist/api/handlers/common"
	"genassist/internal/logger"
	"genassist/internal/models"
	"genassist/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MaxLimit 单次查询上限
const MaxLimit = 100

// Reader 最近动态查询
type Reader interface {
	RecentActivity(ctx context.Context, limit int) ([]*models.WorkflowHistory, error)
}

// Streamer 接管 WebSocket 连接并推送动态，阻塞到连接关闭
type Streamer interface {
	Serve(conn *websocket.Conn)
}

// Handler 动态 API
type Handler struct {
	reader   Reader
	streamer Streamer
	upgrader websocket.Upgrader
}

// NewHandler 构造函数，streamer 为 nil 时实时推送不可用
func NewHandler(reader Reader, streamer Streamer) *Handler {
	return &Handler{
		reader:   reader,
		streamer: streamer,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ParseLimit 解析 limit 参数：缺省或非法时取默认值，超过上限时截断
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return storage.DefaultActivityLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Recent 最近动态
// @Summary 最近的工作流动态
// @Tags Activity
// @Produce json
// @Param limit query int false "条数，默认 10，最大 100"
// @Success 200 {array} models.WorkflowHistory
// @Failure 500 {object} response.ErrorResponse
// @Router /api/activity/recent [get]
func (h *Handler) Recent(c *gin.Context) {
	entries, err := h.reader.RecentActivity(c.Request.Context(), ParseLimit(c.Query("limit")))
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("查询最近动态失败", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, response.MsgInternalError)
		return
	}
	if entries == nil {
		entries = []*models.WorkflowHistory{}
	}
	c.JSON(http.StatusOK, entries)
}

// Stream 通过 WebSocket 实时推送动态
// @Summary 订阅实时动态 (WebSocket)
// @Tags Activity
// @Router /api/activity/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	if h.streamer == nil {
		response.Fail(c, http.StatusServiceUnavailable, "Activity stream unavailable")
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	h.streamer.Serve(conn)
}

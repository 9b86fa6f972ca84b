// Package notification 通过 WebSocket 向前端实时推送工作流动态。
package notification

import (
	"encoding/json"
	"sync"
	"time"

	"genassist/internal/metrics"
	"genassist/internal/models"

	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

const (
	defaultBufferSize = 32
	writeTimeout      = 5 * time.Second
	readTimeout       = 2 * time.Minute
)

// Envelope 推送给客户端的消息
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

// ActivityHub 管理动态订阅连接，实现工作流事件发布接口
type ActivityHub struct {
	mu                deadlock.RWMutex
	subs              map[*subscriber]struct{}
	bufferSize        int
	keepAliveInterval time.Duration
	logger            *zap.Logger
}

// HubOption 配置 hub
type HubOption func(*ActivityHub)

// WithBufferSize 设置每个连接的发送缓冲
func WithBufferSize(n int) HubOption {
	return func(h *ActivityHub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithKeepAliveInterval 设置心跳间隔
func WithKeepAliveInterval(interval time.Duration) HubOption {
	return func(h *ActivityHub) { h.keepAliveInterval = interval }
}

// WithHubLogger 设置日志器
func WithHubLogger(l *zap.Logger) HubOption {
	return func(h *ActivityHub) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewActivityHub 创建 Hub
func NewActivityHub(opts ...HubOption) *ActivityHub {
	hub := &ActivityHub{
		subs:              make(map[*subscriber]struct{}),
		bufferSize:        defaultBufferSize,
		keepAliveInterval: 30 * time.Second,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hub)
		}
	}
	hub.logger = hub.logger.Named("activity")
	return hub
}

// Publish 向所有订阅者广播一条历史记录；慢连接的缓冲区满时直接丢弃，不阻塞调用方
func (h *ActivityHub) Publish(entry *models.WorkflowHistory) {
	if entry == nil {
		return
	}
	data, err := json.Marshal(Envelope{Type: "activity", Data: entry})
	if err != nil {
		h.logger.Warn("序列化动态消息失败", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.send <- data:
		default:
			metrics.ActivityDroppedTotal.Inc()
			h.logger.Debug("订阅方缓冲区已满，丢弃动态", zap.String("history_id", entry.ID))
		}
	}
}

// Serve 注册连接并阻塞直到连接断开
func (h *ActivityHub) Serve(conn *websocket.Conn) {
	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, h.bufferSize),
		done: make(chan struct{}),
	}
	if hello, err := json.Marshal(Envelope{Type: "connected"}); err == nil {
		sub.send <- hello
	}
	h.register(sub)
	defer h.unregister(sub)

	go h.writeLoop(sub)
	h.readLoop(sub)
}

// Count 当前连接数
func (h *ActivityHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close 断开所有连接
func (h *ActivityHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		sub.close()
		_ = sub.conn.Close()
	}
}

func (h *ActivityHub) register(sub *subscriber) {
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	metrics.ActivitySubscribers.Inc()
}

func (h *ActivityHub) unregister(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	if ok {
		metrics.ActivitySubscribers.Dec()
	}
	sub.close()
	_ = sub.conn.Close()
}

// readLoop 丢弃客户端消息，只用于感知断开和处理 pong
func (h *ActivityHub) readLoop(sub *subscriber) {
	sub.conn.SetReadLimit(1024)
	_ = sub.conn.SetReadDeadline(time.Now().Add(readTimeout))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *ActivityHub) writeLoop(sub *subscriber) {
	var tick <-chan time.Time
	if h.keepAliveInterval > 0 {
		ticker := time.NewTicker(h.keepAliveInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-sub.done:
			return
		case msg := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("推送动态失败", zap.Error(err))
				_ = sub.conn.Close()
				return
			}
		case <-tick:
			if err := sub.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				_ = sub.conn.Close()
				return
			}
		}
	}
}

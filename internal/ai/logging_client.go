package ai

import (
	"context"
	"errors"
	"time"

	"genassist/internal/logger"
	"genassist/pkg/aiinterface"

	"go.uber.org/zap"
)

// LoggingClient 记录每次模型调用耗时与 Token 用量的包装器
type LoggingClient struct {
	client aiinterface.ModelClient
	model  string
	logger *zap.Logger
}

var _ aiinterface.ModelClient = (*LoggingClient)(nil)

// NewLoggingClient 创建带日志记录的客户端
func NewLoggingClient(client aiinterface.ModelClient, model string, zl *zap.Logger) *LoggingClient {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &LoggingClient{client: client, model: model, logger: zl.Named("ai")}
}

func (c *LoggingClient) ChatCompletion(ctx context.Context, req *aiinterface.ChatCompletionRequest) (*aiinterface.ChatCompletionResponse, error) {
	start := time.Now()
	resp, err := c.client.ChatCompletion(ctx, req)
	latency := time.Since(start)

	fields := []zap.Field{
		zap.String("provider", c.client.Name()),
		zap.String("model", c.model),
		zap.Duration("latency", latency),
	}
	if traceID := logger.GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}

	if err != nil {
		var clientErr *aiinterface.ClientError
		if errors.As(err, &clientErr) {
			fields = append(fields, zap.String("error_type", string(clientErr.Type)))
		}
		c.logger.Warn("模型调用失败", append(fields, zap.Error(err))...)
		return nil, err
	}

	c.logger.Debug("模型调用完成", append(fields,
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)...)
	return resp, nil
}

func (c *LoggingClient) Name() string {
	return c.client.Name()
}

func (c *LoggingClient) Close() error {
	return c.client.Close()
}

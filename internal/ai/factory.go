package ai

import (
	"genassist/internal/ai/openai"
	"genassist/internal/config"
	"genassist/pkg/aiinterface"

	"go.uber.org/zap"
)

// NewModelClient 根据配置创建分类用的模型客户端
// api_key 为空时返回认证类 ClientError，调用方据此退回本地规则
func NewModelClient(cfg config.OpenAIConfig, zl *zap.Logger) (aiinterface.ModelClient, error) {
	client, err := openai.NewClient(&aiinterface.ClientConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		OrgID:   cfg.OrgID,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return NewLoggingClient(client, cfg.Model, zl), nil
}

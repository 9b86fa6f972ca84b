package openai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"genassist/pkg/aiinterface"

	openai "github.com/sashabaranov/go-openai"
)

// Client OpenAI 客户端适配器
type Client struct {
	client  *openai.Client
	modelID string
	timeout time.Duration
}

var _ aiinterface.ModelClient = (*Client)(nil)

// NewClient 创建 OpenAI 客户端
func NewClient(config *aiinterface.ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeAuth,
			Message: "OpenAI API Key 不能为空",
		}
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.OrgID != "" {
		clientConfig.OrgID = config.OrgID
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		modelID: model,
		timeout: time.Duration(config.Timeout) * time.Second,
	}, nil
}

// ChatCompletion 对话补全（非流式）
func (c *Client) ChatCompletion(ctx context.Context, req *aiinterface.ChatCompletionRequest) (*aiinterface.ChatCompletionResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:       c.modelID,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		TopP:        float32(req.TopP),
	}
	if req.JSONMode {
		openaiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeServerError,
			Message: "API 返回空响应",
		}
	}

	return &aiinterface.ChatCompletionResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Content: resp.Choices[0].Message.Content,
		Usage: aiinterface.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (c *Client) Name() string {
	return "openai"
}

// Close OpenAI 客户端无需显式关闭
func (c *Client) Close() error {
	return nil
}

// wrapError 按 HTTP 状态码或网络错误归类
func wrapError(err error) *aiinterface.ClientError {
	errType := aiinterface.ErrorTypeUnknown

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr):
		errType = classifyStatus(apiErr.HTTPStatusCode)
	case errors.As(err, &reqErr):
		errType = classifyStatus(reqErr.HTTPStatusCode)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		errType = aiinterface.ErrorTypeNetwork
	}

	return &aiinterface.ClientError{
		Type:    errType,
		Message: "OpenAI API 错误",
		Err:     err,
	}
}

func classifyStatus(code int) aiinterface.ErrorType {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return aiinterface.ErrorTypeAuth
	case code == http.StatusTooManyRequests:
		return aiinterface.ErrorTypeRateLimit
	case code >= 400 && code < 500:
		return aiinterface.ErrorTypeInvalidParams
	case code >= 500:
		return aiinterface.ErrorTypeServerError
	default:
		return aiinterface.ErrorTypeUnknown
	}
}

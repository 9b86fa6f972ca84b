package ai

import (
	"context"
	"errors"
	"testing"

	"genassist/internal/config"
	"genassist/pkg/aiinterface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubClient struct {
	resp *aiinterface.ChatCompletionResponse
	err  error
}

func (s *stubClient) ChatCompletion(ctx context.Context, req *aiinterface.ChatCompletionRequest) (*aiinterface.ChatCompletionResponse, error) {
	return s.resp, s.err
}

func (s *stubClient) Name() string { return "stub" }
func (s *stubClient) Close() error { return nil }

func TestLoggingClient_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client := NewLoggingClient(&stubClient{err: &aiinterface.ClientError{
		Type:    aiinterface.ErrorTypeRateLimit,
		Message: "slow down",
	}}, "gpt-4o-mini", zap.New(core))

	_, err := client.ChatCompletion(context.Background(), &aiinterface.ChatCompletionRequest{})
	require.Error(t, err)

	entries := logs.FilterMessage("模型调用失败").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rate_limit", entries[0].ContextMap()["error_type"])
}

func TestLoggingClient_PassesResponse(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	want := &aiinterface.ChatCompletionResponse{Content: "ok", Usage: aiinterface.Usage{TotalTokens: 7}}
	client := NewLoggingClient(&stubClient{resp: want}, "m", zap.New(core))

	got, err := client.ChatCompletion(context.Background(), &aiinterface.ChatCompletionRequest{})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 1, logs.FilterMessage("模型调用完成").Len())
	assert.Equal(t, "stub", client.Name())
}

func TestNewModelClient_MissingKey(t *testing.T) {
	_, err := NewModelClient(config.OpenAIConfig{Model: "gpt-4o-mini"}, zap.NewNop())
	var clientErr *aiinterface.ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, aiinterface.ErrorTypeAuth, clientErr.Type)
}

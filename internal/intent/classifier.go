package intent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"genassist/internal/logger"
	"genassist/internal/metrics"
	"genassist/pkg/aiinterface"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Classifier 意图分类器
type Classifier struct {
	client aiinterface.ModelClient
	cache  Cache
	logger *zap.Logger
	tracer trace.Tracer
}

// Option 分类器选项
type Option func(*Classifier)

// WithCache 启用结果缓存
func WithCache(cache Cache) Option {
	return func(c *Classifier) { c.cache = cache }
}

// WithLogger 指定日志
func WithLogger(zl *zap.Logger) Option {
	return func(c *Classifier) { c.logger = zl }
}

// NewClassifier 创建分类器，client 为 nil 时始终使用本地规则
func NewClassifier(client aiinterface.ModelClient, opts ...Option) *Classifier {
	c := &Classifier{
		client: client,
		logger: zap.NewNop(),
		tracer: otel.Tracer("genassist/internal/intent"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify 对指令分类，模型相关的错误不会返回给调用方
func (c *Classifier) Classify(ctx context.Context, text string) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "intent.Classify")
	defer span.End()

	start := time.Now()
	result := c.classify(ctx, text)

	span.SetAttributes(
		attribute.String("intent", string(result.Intent)),
		attribute.String("source", string(result.Source)),
		attribute.Float64("confidence", result.Confidence),
	)
	metrics.RecordClassification(string(result.Source), string(result.Intent), time.Since(start).Seconds())
	return result, nil
}

func (c *Classifier) classify(ctx context.Context, text string) *Result {
	zl := c.logger
	if traceID := logger.GetTraceID(ctx); traceID != "" {
		zl = zl.With(zap.String("trace_id", traceID))
	}

	if c.client == nil {
		return Fallback(text)
	}

	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, text)
		if err != nil {
			zl.Warn("读取分类缓存失败", zap.Error(err))
		} else if ok {
			cached.Source = SourceCache
			return cached
		}
	}

	result, err := c.callModel(ctx, text, zl)
	if err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "model classification failed")
		metrics.LLMFallbacksTotal.WithLabelValues(fallbackReason(err)).Inc()
		zl.Warn("模型分类失败，使用本地规则", zap.Error(err))
		return Fallback(text)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, text, result); err != nil {
			zl.Warn("写入分类缓存失败", zap.Error(err))
		}
	}
	return result
}

func (c *Classifier) callModel(ctx context.Context, text string, zl *zap.Logger) (*Result, error) {
	resp, err := c.client.ChatCompletion(ctx, buildRequest(text))
	if err != nil {
		return nil, err
	}

	result, raw, err := parseLLMResponse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnparseable, err)
	}
	result.Entities = ValidateEntities(result.Intent, raw, zl)
	return result, nil
}

var errUnparseable = errors.New("模型输出无法解析")

func fallbackReason(err error) string {
	var clientErr *aiinterface.ClientError
	switch {
	case errors.Is(err, errUnparseable):
		return "parse"
	case errors.As(err, &clientErr):
		return string(clientErr.Type)
	default:
		return "unknown"
	}
}

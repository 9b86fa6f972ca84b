package intent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"genassist/internal/cache"
	"genassist/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cache 分类结果缓存，只缓存模型结果
type Cache interface {
	Get(ctx context.Context, text string) (*Result, bool, error)
	Set(ctx context.Context, text string, result *Result) error
}

const cacheKeyPrefix = "genassist:intent:"

// RedisCache 基于 Redis 的分类结果缓存
type RedisCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewRedisCache 创建 Redis 缓存
func NewRedisCache(rdb redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, text string) (*Result, bool, error) {
	data, err := c.rdb.Get(ctx, CacheKey(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取分类缓存失败: %w", err)
	}
	result, err := decodeResult(data)
	if err != nil {
		return nil, false, fmt.Errorf("解析分类缓存失败: %w", err)
	}
	return result, true, nil
}

func (c *RedisCache) Set(ctx context.Context, text string, result *Result) error {
	data, err := encodeResult(result)
	if err != nil {
		return fmt.Errorf("序列化分类结果失败: %w", err)
	}
	if err := c.rdb.Set(ctx, CacheKey(text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("写入分类缓存失败: %w", err)
	}
	return nil
}

// cachedResult 缓存中的分类结果，实体带类型标记
type cachedResult struct {
	Intent     models.Intent   `json:"intent"`
	Domain     models.Domain   `json:"domain"`
	Entities   json.RawMessage `json:"entities"`
	Confidence float64         `json:"confidence"`
	Source     Source          `json:"source"`
}

func encodeResult(r *Result) ([]byte, error) {
	entities, err := r.Entities.MarshalTyped()
	if err != nil {
		return nil, err
	}
	return json.Marshal(cachedResult{
		Intent:     r.Intent,
		Domain:     r.Domain,
		Entities:   entities,
		Confidence: r.Confidence,
		Source:     r.Source,
	})
}

func decodeResult(data []byte) (*Result, error) {
	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, err
	}
	entities := models.Entities{}
	if len(cr.Entities) > 0 {
		var err error
		if entities, err = models.UnmarshalTypedEntities(cr.Entities); err != nil {
			return nil, err
		}
	}
	return &Result{
		Intent:     cr.Intent,
		Domain:     cr.Domain,
		Entities:   entities,
		Confidence: cr.Confidence,
		Source:     cr.Source,
	}, nil
}

// LocalCache 进程内 LFU 分类结果缓存，未启用 Redis 时使用
type LocalCache struct {
	lfu *cache.LFUCache[*Result]
}

// NewLocalCache 创建进程内缓存
func NewLocalCache(capacity int, ttl time.Duration) *LocalCache {
	return &LocalCache{lfu: cache.NewLFUCache[*Result]("intent", capacity, ttl)}
}

func (c *LocalCache) Get(ctx context.Context, text string) (*Result, bool, error) {
	r, ok := c.lfu.Get(CacheKey(text))
	if !ok {
		return nil, false, nil
	}
	return r.Clone(), true, nil
}

func (c *LocalCache) Set(ctx context.Context, text string, result *Result) error {
	c.lfu.Set(CacheKey(text), result.Clone())
	return nil
}

// CacheKey 规范化文本（小写、合并空白）后取 sha256
func CacheKey(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

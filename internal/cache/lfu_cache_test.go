package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLFUCacheBasicOperations 测试 LFU 缓存基本操作
func TestLFUCacheBasicOperations(t *testing.T) {
	c := NewLFUCache[string]("test", 3, 0)

	c.Set("key1", "response1")
	c.Set("key2", "response2")

	v, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "response1", v)

	c.Set("key1", "updated")
	v, _ = c.Get("key1")
	assert.Equal(t, "updated", v)

	c.Delete("key2")
	_, ok = c.Get("key2")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

// TestLFUCacheEviction 容量满时淘汰访问频率最低的条目
func TestLFUCacheEviction(t *testing.T) {
	c := NewLFUCache[int]("test", 3, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// a、c 访问两次，b 只在写入时计数
	c.Get("a")
	c.Get("a")
	c.Get("c")

	c.Set("d", 4)
	_, ok := c.Get("b")
	assert.False(t, ok, "b 频率最低应被淘汰")
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, 3, c.Len())
}

// TestLFUCacheEvictionTieBreak 频率相同时淘汰最早写入的条目
func TestLFUCacheEvictionTieBreak(t *testing.T) {
	c := NewLFUCache[int]("test", 2, 0)
	c.Set("first", 1)
	c.Set("second", 2)
	c.Set("third", 3)

	_, ok := c.Get("first")
	assert.False(t, ok)
	_, ok = c.Get("second")
	assert.True(t, ok)
}

// TestLFUCacheEvictionAfterDelete 删除最低频条目后仍能正确淘汰
func TestLFUCacheEvictionAfterDelete(t *testing.T) {
	c := NewLFUCache[int]("test", 2, 0)
	c.Set("a", 1)
	c.Get("a")
	c.Set("b", 2)
	c.Get("b")
	c.Get("b")
	c.Delete("a")
	c.Set("c", 3)
	c.Set("d", 4)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

// TestLFUCacheTTL 过期条目视为未命中
func TestLFUCacheTTL(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	c := NewLFUCache[string]("test", 10, time.Minute, WithNow(func() time.Time { return now }))

	c.Set("k", "v")
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

// TestLFUCacheConcurrentAccess 并发读写
func TestLFUCacheConcurrentAccess(t *testing.T) {
	c := NewLFUCache[int]("test", 50, 0)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d", (g*200+i)%80)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}

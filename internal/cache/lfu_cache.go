// Package cache 提供进程内缓存
package cache

import (
	"container/list"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// lfuNode LFU 缓存中的一个节点
type lfuNode[V any] struct {
	key       string
	value     V
	frequency int
	expiresAt time.Time // 零值表示永不过期
}

// LFUCache 带过期时间的 LFU 缓存，频率相同时淘汰最早进入该频率的条目
type LFUCache[V any] struct {
	name       string
	capacity   int
	ttl        time.Duration
	now        func() time.Time
	minFreq    int
	keyToElem  map[string]*list.Element
	freqToList map[int]*list.List
	mu         deadlock.Mutex
}

// Option 缓存选项
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithNow 指定时间源
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewLFUCache 创建 LFU 缓存
// name 用于指标标签；capacity<=0 时按 1 处理；ttl<=0 表示不过期
func NewLFUCache[V any](name string, capacity int, ttl time.Duration, opts ...Option) *LFUCache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity <= 0 {
		capacity = 1
	}
	return &LFUCache[V]{
		name:       name,
		capacity:   capacity,
		ttl:        ttl,
		now:        o.now,
		keyToElem:  make(map[string]*list.Element),
		freqToList: make(map[int]*list.List),
	}
}

// Get 获取缓存值，过期条目视为未命中并被移除
func (c *LFUCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.keyToElem[key]
	if !ok {
		recordMiss(c.name)
		return zero, false
	}
	node := elem.Value.(*lfuNode[V])
	if c.expired(node) {
		c.remove(elem)
		recordMiss(c.name)
		return zero, false
	}

	c.touch(elem)
	recordHit(c.name)
	return node.value, true
}

// Set 写入缓存，已存在时更新值并增加频率
func (c *LFUCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.keyToElem[key]; ok {
		node := elem.Value.(*lfuNode[V])
		node.value = value
		node.expiresAt = c.deadline()
		c.touch(elem)
		return
	}

	if len(c.keyToElem) >= c.capacity {
		c.evict()
	}

	node := &lfuNode[V]{key: key, value: value, frequency: 1, expiresAt: c.deadline()}
	c.keyToElem[key] = c.freqList(1).PushBack(node)
	c.minFreq = 1
}

// Delete 删除条目
func (c *LFUCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.keyToElem[key]; ok {
		c.remove(elem)
	}
}

// Len 当前条目数（含尚未清理的过期条目）
func (c *LFUCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keyToElem)
}

func (c *LFUCache[V]) deadline() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *LFUCache[V]) expired(node *lfuNode[V]) bool {
	return !node.expiresAt.IsZero() && !c.now().Before(node.expiresAt)
}

func (c *LFUCache[V]) freqList(freq int) *list.List {
	l, ok := c.freqToList[freq]
	if !ok {
		l = list.New()
		c.freqToList[freq] = l
	}
	return l
}

// touch 将节点移动到下一个频率
func (c *LFUCache[V]) touch(elem *list.Element) {
	node := elem.Value.(*lfuNode[V])
	c.detach(elem)
	node.frequency++
	c.keyToElem[node.key] = c.freqList(node.frequency).PushBack(node)
	if _, ok := c.freqToList[c.minFreq]; !ok {
		c.minFreq = node.frequency
	}
}

func (c *LFUCache[V]) detach(elem *list.Element) {
	node := elem.Value.(*lfuNode[V])
	l := c.freqToList[node.frequency]
	l.Remove(elem)
	if l.Len() == 0 {
		delete(c.freqToList, node.frequency)
	}
}

func (c *LFUCache[V]) remove(elem *list.Element) {
	node := elem.Value.(*lfuNode[V])
	c.detach(elem)
	delete(c.keyToElem, node.key)
}

// evict 淘汰最不常用的条目
func (c *LFUCache[V]) evict() {
	l, ok := c.freqToList[c.minFreq]
	if !ok {
		// minFreq 失效时重新计算
		c.minFreq = 0
		for freq := range c.freqToList {
			if c.minFreq == 0 || freq < c.minFreq {
				c.minFreq = freq
			}
		}
		if l, ok = c.freqToList[c.minFreq]; !ok {
			return
		}
	}
	if front := l.Front(); front != nil {
		c.remove(front)
		recordEviction(c.name)
	}
}

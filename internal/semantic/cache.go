package semantic

import (
	"container/list"
	"context"
	"sync"
)

// VectorCache 按内容寻址缓存文本向量。
// 键由模型版本与文本MD5拼成, Add只在键不存在时写入。
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float64, bool, error)
	Add(ctx context.Context, key string, vector []float64) error
}

// memoryCacheEntry LRU链表节点负载
type memoryCacheEntry struct {
	key    string
	vector []float64
}

// MemoryVectorCache 带容量上限的进程内LRU缓存, Redis未启用时使用
type MemoryVectorCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

// NewMemoryVectorCache 创建内存向量缓存
func NewMemoryVectorCache(capacity int) *MemoryVectorCache {
	if capacity <= 0 {
		capacity = 512
	}
	return &MemoryVectorCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get 命中时将条目移到LRU队首
func (c *MemoryVectorCache) Get(_ context.Context, key string) ([]float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*memoryCacheEntry).vector, true, nil
}

// Add 键已存在时不覆盖; 超容量时淘汰最久未用条目
func (c *MemoryVectorCache) Add(_ context.Context, key string, vector []float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return nil
	}

	elem := c.order.PushFront(&memoryCacheEntry{key: key, vector: vector})
	c.items[key] = elem

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*memoryCacheEntry).key)
	}
	return nil
}

// Len 当前缓存条目数
func (c *MemoryVectorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

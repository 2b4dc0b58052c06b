package cache

import (
	"sync"

	"github.com/23skdu/longbow-tensor/internal/tensor"
)

// TensorCache defines a generic interface for caching operand tensors.
type TensorCache interface {
	// Get retrieves a tensor from the cache.
	Get(key string) (*tensor.Tensor, bool)
	// Put stores a tensor in the cache.
	Put(key string, t *tensor.Tensor)
	// Size returns the number of items in the cache.
	Size() int
}

// MapCache is a simple in-memory implementation of TensorCache.
// Tensors are immutable, so cached values are shared rather than copied.
type MapCache struct {
	data map[string]*tensor.Tensor
	mu   sync.RWMutex
}

func NewMapCache() *MapCache {
	return &MapCache{
		data: make(map[string]*tensor.Tensor),
	}
}

func (c *MapCache) Get(key string) (*tensor.Tensor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.data[key]
	return t, ok
}

func (c *MapCache) Put(key string, t *tensor.Tensor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = t
}

// GetOrCreate returns the cached tensor for key, building and storing it with
// create on a miss. Concurrent misses on the same key may both call create;
// the first stored value wins.
func (c *MapCache) GetOrCreate(key string, create func() (*tensor.Tensor, error)) (*tensor.Tensor, error) {
	if t, ok := c.Get(key); ok {
		return t, nil
	}
	t, err := create()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.data[key]; ok {
		return existing, nil
	}
	c.data[key] = t
	return t, nil
}

func (c *MapCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

package embedding

import (
	"sync"

	"github.com/ieum-project/ieum/pkg/metrics"
)

// vectorNode is a single cached vector in the eviction list.
type vectorNode struct {
	text   string
	vector []float32
	next   *vectorNode
}

// Cache is a bounded in-memory text-to-vector cache. Eviction drops the
// oldest surviving entry once the bound is reached; the hot texts are the
// fixed candidate corpus, which stays resident.
//
// A maxSize of 0 or less means unbounded.
type Cache struct {
	mu      sync.Mutex
	byText  map[string]*vectorNode
	head    *vectorNode
	maxSize int
}

// NewCache creates a vector cache bounded to maxSize entries.
func NewCache(maxSize int) *Cache {
	return &Cache{
		byText:  make(map[string]*vectorNode),
		maxSize: maxSize,
	}
}

// Get returns the cached vector for text and whether it was present.
func (c *Cache) Get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.byText[text]
	if !ok {
		metrics.RecordEmbeddingCacheMiss()
		return nil, false
	}
	metrics.RecordEmbeddingCacheHit()
	return n.vector, true
}

// Put stores a vector, evicting the oldest entry when the cache is full.
func (c *Cache) Put(text string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byText[text]; exists {
		c.byText[text].vector = vector
		return
	}

	if c.maxSize > 0 && len(c.byText) >= c.maxSize {
		c.evictOldest()
	}

	n := &vectorNode{text: text, vector: vector, next: c.head}
	c.head = n
	c.byText[text] = n
	metrics.UpdateEmbeddingCacheSize(len(c.byText))
}

// evictOldest removes the tail of the insertion list. Must be called with
// c.mu held.
func (c *Cache) evictOldest() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.byText, c.head.text)
		c.head = nil
		return
	}
	prev := c.head
	for prev.next.next != nil {
		prev = prev.next
	}
	delete(c.byText, prev.next.text)
	prev.next = nil
}

// Size returns the number of cached vectors.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byText)
}

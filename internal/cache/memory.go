package cache

import (
	"container/list"
	"sync"
)

// Memory is an in-memory cache with LRU eviction and a size limit in bytes.
// It is safe for concurrent use.
type Memory struct {
	capacity int64 // Maximum size in bytes
	size     int64 // Current size in bytes

	// LRU implementation
	items    map[string]*list.Element
	eviction *list.List

	mu    sync.Mutex
	stats Stats
}

type memoryEntry struct {
	key   string
	value Entry
	size  int64
}

// NewMemory creates a new memory cache with the specified capacity in bytes.
func NewMemory(capacity int64) *Memory {
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		stats:    Stats{Capacity: capacity},
	}
}

// Get retrieves an entry and marks it as recently used.
func (c *Memory) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return Entry{}, false
	}

	// Move to front (most recently used)
	c.eviction.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*memoryEntry).value, true
}

// Put stores an entry, evicting the least recently used ones as needed.
func (c *Memory) Put(key string, value Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	valueSize := int64(len(key)) + value.size()

	// Check if key already exists
	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		entry := elem.Value.(*memoryEntry)
		c.size += valueSize - entry.size
		entry.value = value
		entry.size = valueSize
		c.evictOverflow()
		return nil
	}

	if valueSize > c.capacity {
		return ErrItemTooLarge
	}

	for c.size+valueSize > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}

	elem := c.eviction.PushFront(&memoryEntry{key: key, value: value, size: valueSize})
	c.items[key] = elem
	c.size += valueSize
	return nil
}

// Delete removes an entry from the cache.
func (c *Memory) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Contains checks if a key exists in the cache without updating LRU.
func (c *Memory) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}

// Stats returns cache statistics.
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.size
	stats.Items = len(c.items)
	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}
	return stats
}

// evictOverflow must be called with lock held.
func (c *Memory) evictOverflow() {
	for c.size > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}
}

// evictOldest removes the least recently used item (must be called with lock held).
func (c *Memory) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
	}
}

// removeElement removes an element from the cache (must be called with lock held).
func (c *Memory) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*memoryEntry)
	delete(c.items, entry.key)
	c.size -= entry.size
}

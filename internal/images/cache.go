package images

import "sync"

// Cache maps an image URL to its verified absolute URL. Entries are only added
// or overwritten; Clear is the single way to drop them.
type Cache struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewCache() *Cache {
	return &Cache{m: make(map[string]string)}
}

func (c *Cache) Has(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.m[url]
	return ok
}

func (c *Cache) Get(url string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[url]
	return v, ok
}

func (c *Cache) Set(url, verified string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[url] = verified
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]string)
}

package internal

// ResourceCache keeps the most recently resolved resources by scene
// identifier and hands evicted entries to the release callback.
type ResourceCache[T any] struct {
	resources map[string]T
	order     []string // tracks insertion order for LRU eviction
	maxSize   int
	release   func(key string, value T)
}

func NewResourceCache[T any](maxSize int, release func(key string, value T)) *ResourceCache[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &ResourceCache[T]{
		resources: make(map[string]T),
		order:     make([]string, 0, maxSize),
		maxSize:   maxSize,
		release:   release,
	}
}

func (c *ResourceCache[T]) Get(key string) (T, bool) {
	if resource, exists := c.resources[key]; exists {
		// Move to end (most recently used)
		c.moveToEnd(key)
		return resource, true
	}
	var zero T
	return zero, false
}

func (c *ResourceCache[T]) Set(key string, resource T) {
	// If key already exists, just update and move to end
	if _, exists := c.resources[key]; exists {
		c.resources[key] = resource
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	if len(c.order) >= c.maxSize {
		c.evictOldest()
	}

	c.resources[key] = resource
	c.order = append(c.order, key)
}

func (c *ResourceCache[T]) Len() int {
	return len(c.order)
}

func (c *ResourceCache[T]) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

func (c *ResourceCache[T]) evictOldest() {
	if len(c.order) == 0 {
		return
	}

	oldest := c.order[0]
	c.order = c.order[1:]

	if resource, exists := c.resources[oldest]; exists {
		delete(c.resources, oldest)
		if c.release != nil {
			c.release(oldest, resource)
		}
	}
}

// Destroy releases every cached resource and empties the cache.
func (c *ResourceCache[T]) Destroy() {
	for _, key := range c.order {
		if c.release != nil {
			c.release(key, c.resources[key])
		}
	}
	c.resources = make(map[string]T)
	c.order = c.order[:0]
}

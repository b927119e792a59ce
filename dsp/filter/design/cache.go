package design

import "sync"

type cacheKey struct {
	typ       Type
	order     int
	low, high float64
}

func keyOf(s Spec) cacheKey {
	k := cacheKey{typ: s.Type, order: s.Order}
	if len(s.Cutoffs) > 0 {
		k.low = s.Cutoffs[0]
	}
	if len(s.Cutoffs) > 1 {
		k.high = s.Cutoffs[1]
	}
	return k
}

// Cache memoizes [Design] results by spec. It is safe for concurrent use;
// cached coefficients are shared and never modified.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*Coefficients
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*Coefficients)}
}

// Design returns cached coefficients for spec, designing them on first use.
// Invalid specs are not cached.
func (c *Cache) Design(spec Spec) (*Coefficients, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	key := keyOf(spec)

	c.mu.RLock()
	coeffs, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return coeffs, nil
	}

	coeffs, err := Design(spec)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, nil
	}
	c.entries[key] = coeffs

	return coeffs, nil
}

// Len returns the number of cached designs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

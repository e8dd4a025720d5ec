// Package memo provides a single-value cache with optional expiry.
package memo

import (
	"context"
	"time"
)

// Cache holds at most one value produced by a load function.
//
// The first caller of Get runs the load while holding the cache lock, so
// concurrent callers wait for that result instead of loading again. A waiting
// caller gives up when its own context is done. Errors are returned to the
// caller that hit them and are not cached.
type Cache[T any] struct {
	sem      chan struct{} // lock with capacity 1
	ttl      time.Duration
	now      func() time.Time
	value    T
	loadedAt time.Time
	valid    bool
	loads    int
}

// New returns a cache whose entries expire after ttl. A ttl of zero or less
// keeps the value until Invalidate is called.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{sem: make(chan struct{}, 1), ttl: ttl, now: time.Now}
}

func (c *Cache[T]) lock()   { c.sem <- struct{}{} }
func (c *Cache[T]) unlock() { <-c.sem }

// lockContext acquires the lock unless ctx is done first.
func (c *Cache[T]) lockContext(ctx context.Context) error {
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetClock replaces the time source. Intended for tests.
func (c *Cache[T]) SetClock(now func() time.Time) {
	c.lock()
	defer c.unlock()
	c.now = now
}

// Get returns the cached value, calling load when the cache is empty or expired.
func (c *Cache[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	if err := c.lockContext(ctx); err != nil {
		var zero T
		return zero, err
	}
	defer c.unlock()

	if c.valid && !c.expired() {
		return c.value, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.value = v
	c.loadedAt = c.now()
	c.valid = true
	c.loads++
	return v, nil
}

func (c *Cache[T]) expired() bool {
	return c.ttl > 0 && c.now().Sub(c.loadedAt) >= c.ttl
}

// Invalidate drops the cached value.
func (c *Cache[T]) Invalidate() {
	c.lock()
	defer c.unlock()

	var zero T
	c.value = zero
	c.valid = false
}

// Loaded reports whether a value is cached and when it was loaded.
func (c *Cache[T]) Loaded() (time.Time, bool) {
	c.lock()
	defer c.unlock()

	if !c.valid || c.expired() {
		return time.Time{}, false
	}
	return c.loadedAt, true
}

// Loads returns the number of successful loads since the cache was created.
func (c *Cache[T]) Loads() int {
	c.lock()
	defer c.unlock()
	return c.loads
}

// ABOUTME: Process-local TTL cache memoizing hot reads in front of the primary store
// ABOUTME: Entries carry insert timestamps and hit counters; a sweep loop evicts stale ones

package store

import (
	"log/slog"
	"sync"
	"time"
)

// cacheEntry wraps a cached value with its insertion time and a hit counter.
// The counter exists for observability only; eviction is purely age-based.
type cacheEntry struct {
	value    any
	insertAt time.Time
	hits     int64
}

// Cache is a time-bounded memoization layer. All methods are safe for
// concurrent use and never touch the backend locks.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	stop    chan struct{}
	done    chan struct{}
	logger  *slog.Logger
}

// sweepInterval is how often the background sweep evicts expired entries.
const sweepInterval = time.Minute

// NewCache creates a cache whose entries expire after ttl and starts the
// background sweep loop. Call Stop to shut the loop down.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "cache"),
	}
	go c.sweepLoop()
	return c
}

func (c *Cache) sweepLoop() {
	defer close(c.done)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	evicted := 0
	for key, e := range c.entries {
		if now.Sub(e.insertAt) > c.ttl {
			delete(c.entries, key)
			evicted++
		}
	}
	if evicted > 0 {
		c.logger.Debug("swept expired cache entries", "count", evicted)
	}
}

// Get returns the cached value for key. An entry past its TTL that the sweep
// has not reached yet is removed lazily and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.insertAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	e.hits++
	return e.value, true
}

// Set stores a value under key with a fresh insertion timestamp.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{value: value, insertAt: time.Now()}
}

// Delete removes one entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Hits returns the hit counter for key, for observability.
func (c *Cache) Hits(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.hits
	}
	return 0
}

// Stop terminates the sweep loop and waits for it to exit.
func (c *Cache) Stop() {
	close(c.stop)
	<-c.done
}

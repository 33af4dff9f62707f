// Package resolve maps abstract service identifiers (UUIDs, volume names)
// to concrete, time-bounded network endpoints via the directory service,
// caching UUID resolutions to avoid redundant lookups.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/dfsclient/internal/infra/dir"
	"github.com/vietddude/dfsclient/internal/metrics"
)

type cacheEntry struct {
	endpoint  string
	createdAt time.Time
	ttl       time.Duration
}

// Cache resolves service UUIDs to endpoints, caching each resolution for the
// TTL the directory service attached to it. A stale entry is evicted before
// the next resolution, never returned.
//
// Reads take the lock non-blocking: under contention a caller skips the
// cache and resolves over the network instead of waiting. The fallback is
// self-contained and idempotent, so racing resolutions of the same UUID are
// benign; the last insert wins.
type Cache struct {
	dir    dir.Client
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates an empty cache resolving through the given directory
// client.
func NewCache(client dir.Client, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		dir:     client,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Resolve returns the endpoint for a service UUID, from cache when a live
// entry exists, otherwise from the directory service. Fails with
// *ResolutionError when the directory knows no mapping for the UUID.
func (c *Cache) Resolve(ctx context.Context, uuid string) (string, error) {
	if c.mu.TryLock() {
		if entry, ok := c.entries[uuid]; ok {
			if c.now().Sub(entry.createdAt) < entry.ttl {
				c.mu.Unlock()
				metrics.CacheHitsTotal.Inc()
				return entry.endpoint, nil
			}
			// Expired: evict before falling through to the directory.
			delete(c.entries, uuid)
			metrics.CacheEvictionsTotal.Inc()
		}
		c.mu.Unlock()
	}
	metrics.CacheMissesTotal.Inc()

	mappings, err := c.dir.GetAddressMappings(ctx, uuid)
	if err != nil {
		return "", fmt.Errorf("address mappings for %s: %w", uuid, err)
	}
	if len(mappings) == 0 {
		return "", &ResolutionError{UUID: uuid}
	}

	// First mapping wins; the directory's order is authoritative.
	mapping := mappings[0]
	entry := cacheEntry{
		endpoint:  mapping.Endpoint(),
		createdAt: c.now(),
		ttl:       mapping.TTL,
	}

	c.mu.Lock()
	c.entries[uuid] = entry
	c.mu.Unlock()

	c.logger.Debug("resolved service address",
		"uuid", uuid,
		"endpoint", entry.endpoint,
		"ttl", entry.ttl,
	)
	return entry.endpoint, nil
}

// Invalidate drops the cached entry for a UUID, forcing the next Resolve to
// query the directory. Used after a redirect demotes a cached address.
func (c *Cache) Invalidate(uuid string) {
	c.mu.Lock()
	delete(c.entries, uuid)
	c.mu.Unlock()
}

// Len returns the number of cached entries, live or expired.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

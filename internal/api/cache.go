package api

import (
	"context"
	"sync"
	"time"

	"github.com/freshconn/tfcdash/pkg/tfcdash"
	"github.com/freshconn/tfcdash/pkg/tfcdash/models"
	"github.com/google/uuid"
)

// cacheEntry is one built dashboard plus the tag served as its ETag.
// The tag changes only on refresh, so clients can cheaply detect
// whether the tables they hold are still the ones the server has.
type cacheEntry struct {
	dash     *models.Dashboard
	tag      string
	loadedAt time.Time
}

// dashCache is a read-through cache keyed by source identifier.
// Entries never expire on their own; staleness is bounded only by an
// explicit refresh.
type dashCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	opts    tfcdash.Options
}

func newDashCache(opts tfcdash.Options) *dashCache {
	return &dashCache{
		entries: make(map[string]*cacheEntry),
		opts:    opts,
	}
}

// get returns the cached dashboard for the source, building it on first
// use. Build failures are not cached.
func (c *dashCache) get(ctx context.Context, source string) (*cacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[source]; ok {
		return e, nil
	}
	return c.buildLocked(ctx, source)
}

// refresh discards the cached entry and rebuilds from the source.
func (c *dashCache) refresh(ctx context.Context, source string) (*cacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, source)
	return c.buildLocked(ctx, source)
}

func (c *dashCache) buildLocked(ctx context.Context, source string) (*cacheEntry, error) {
	dash, err := tfcdash.Build(ctx, source, c.opts)
	if err != nil {
		return nil, err
	}
	e := &cacheEntry{
		dash:     dash,
		tag:      uuid.NewString(),
		loadedAt: time.Now(),
	}
	c.entries[source] = e
	return e, nil
}

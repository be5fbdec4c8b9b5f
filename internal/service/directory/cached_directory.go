package directory

import (
	"context"
	"sync"
	"time"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// CachedDirectory fronts a KAM directory with a per-email TTL cache. The
// KAM-to-client mapping changes rarely but is consulted on every KAM-scoped
// list, so each lookup is served from the cache until its entry ages out.
// Staleness is bounded by the TTL; Invalidate drops an entry early when an
// assignment change is known.
type CachedDirectory struct {
	inner ports.KamDirectory
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	record    *domain.KamRecord
	fetchedAt time.Time
}

// NewCachedDirectory wraps a directory with a TTL cache
func NewCachedDirectory(inner ports.KamDirectory, ttl time.Duration) *CachedDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDirectory{
		inner:   inner,
		ttl:     ttl,
		entries: map[string]cacheEntry{},
	}
}

// FindByEmail retrieves the KAM record, served from cache within the TTL.
// Lookup failures are not cached; the next call retries the backing store.
func (d *CachedDirectory) FindByEmail(ctx context.Context, email string) (*domain.KamRecord, error) {
	d.mu.Lock()
	entry, ok := d.entries[email]
	d.mu.Unlock()

	if ok && time.Since(entry.fetchedAt) < d.ttl {
		return entry.record, nil
	}

	record, err := d.inner.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.entries[email] = cacheEntry{record: record, fetchedAt: time.Now()}
	d.mu.Unlock()

	return record, nil
}

// Invalidate drops the cached entry for one email
func (d *CachedDirectory) Invalidate(email string) {
	d.mu.Lock()
	delete(d.entries, email)
	d.mu.Unlock()
}

// InvalidateAll drops every cached entry
func (d *CachedDirectory) InvalidateAll() {
	d.mu.Lock()
	d.entries = map[string]cacheEntry{}
	d.mu.Unlock()
}

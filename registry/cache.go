package registry

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched catalog is served without refetching.
const DefaultTTL = 1 * time.Hour

// Cache owns the single in-memory snapshot of the plugin catalog. It enforces
// the TTL, serializes concurrent refreshes into one in-flight fetch, and
// answers every read query from the current snapshot. A refresh failure is
// never surfaced to readers: they keep getting the last good snapshot.
type Cache struct {
	source Source
	ttl    time.Duration
	logger *slog.Logger
	state  *stateFile       // nil disables the diagnostic side-channel
	now    func() time.Time // stubbed in tests

	mu   sync.RWMutex
	snap *snapshot

	group singleflight.Group
}

// CacheOption is a functional option for configuring a Cache.
type CacheOption func(*Cache)

// WithTTL sets how long a fetched catalog is considered fresh.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// WithLogger sets the logger for the cache.
func WithLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) { c.logger = l }
}

// WithStatePath enables best-effort persistence of a diagnostic snapshot
// document to the given file after each successful refresh.
func WithStatePath(path string) CacheOption {
	return func(c *Cache) { c.state = newStateFile(path) }
}

// NewCache creates a Cache over the given source.
// Defaults: DefaultTTL, slog.Default(), no state persistence.
func NewCache(source Source, opts ...CacheOption) *Cache {
	c := &Cache{
		source: source,
		ttl:    DefaultTTL,
		logger: slog.Default(),
		now:    time.Now,
		snap:   emptySnapshot(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Plugins returns the catalog records, refetching from the source when the
// snapshot is stale. Concurrent callers arriving during a refresh share its
// result rather than triggering duplicate fetches. On fetch or parse failure
// the previous snapshot is retained and returned; this method never fails.
func (c *Cache) Plugins(ctx context.Context) []Plugin {
	snap := c.current()
	if snap.fresh(c.now(), c.ttl) {
		return slices.Clone(snap.records)
	}
	return c.refresh(ctx)
}

// Refresh invalidates the snapshot and refetches regardless of TTL. The
// single-flight guarantee still holds: a Refresh that arrives while another
// refresh is in flight joins it instead of starting a second fetch.
func (c *Cache) Refresh(ctx context.Context) []Plugin {
	c.mu.Lock()
	c.snap = c.snap.invalidated()
	c.mu.Unlock()
	return c.refresh(ctx)
}

// FetchedAt returns the time of the last successful fetch, zero before the
// first one.
func (c *Cache) FetchedAt() time.Time {
	return c.current().fetchedAt
}

// Expiry returns when the current snapshot goes stale, zero before the first
// successful fetch.
func (c *Cache) Expiry() time.Time {
	snap := c.current()
	if snap.fetchedAt.IsZero() {
		return time.Time{}
	}
	return snap.fetchedAt.Add(c.ttl)
}

// current returns the snapshot pointer under the read lock. The snapshot
// itself is immutable, so callers can use it without further locking.
func (c *Cache) current() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// refresh performs a single-flighted fetch-parse-rebuild cycle. All callers
// collapsed into one flight observe the same completed refresh's records.
func (c *Cache) refresh(ctx context.Context) []Plugin {
	v, err, _ := c.group.Do("catalog", func() (any, error) {
		// A flight queued behind a completed refresh must not refetch.
		if snap := c.current(); snap.fresh(c.now(), c.ttl) {
			return snap, nil
		}

		cat, err := c.source.Fetch(ctx)
		if err != nil {
			return nil, err
		}

		snap := newSnapshot(cat, c.now())
		c.mu.Lock()
		c.snap = snap
		c.mu.Unlock()

		c.logger.Info("registry refreshed",
			"source", c.source.String(),
			"plugins", len(snap.records),
		)
		c.persist(snap)
		return snap, nil
	})
	if err != nil {
		snap := c.current()
		c.logger.Warn("registry refresh failed, serving previous snapshot",
			"source", c.source.String(),
			"plugins", len(snap.records),
			"error", err,
		)
		return slices.Clone(snap.records)
	}
	return slices.Clone(v.(*snapshot).records)
}

// persist writes the diagnostic state document. Failures are logged and
// swallowed; persistence must never fail or delay a refresh.
func (c *Cache) persist(snap *snapshot) {
	if c.state == nil {
		return
	}
	if err := c.state.write(c.stateDoc(snap)); err != nil {
		c.logger.Warn("persisting registry state failed", "path", c.state.path, "error", err)
	}
}

// ReadState loads the persisted diagnostic document, nil when none has been
// written yet. It is observability-only and is never read back into the
// live cache.
func (c *Cache) ReadState() (*StateDoc, error) {
	if c.state == nil {
		return nil, nil
	}
	return c.state.read()
}

// stateDoc projects a snapshot into the persisted diagnostic document.
func (c *Cache) stateDoc(snap *snapshot) *StateDoc {
	doc := &StateDoc{
		Timestamp:    c.now(),
		LastUpdated:  snap.fetchedAt,
		CacheExpiry:  snap.fetchedAt.Add(c.ttl),
		Stats:        c.statsOf(snap),
		FullRegistry: snap.raw,
	}
	for _, p := range snap.records {
		doc.Plugins = append(doc.Plugins, StateRecord{
			ID:           p.ID,
			Name:         p.Name,
			Version:      p.Version,
			Categories:   p.Categories,
			Integrations: p.Integrations,
			Price:        p.Price(),
			LastUpdated:  p.LastUpdated,
		})
	}
	return doc
}

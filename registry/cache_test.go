package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stubSource counts fetches and serves a configurable catalog or error.
type stubSource struct {
	mu    sync.Mutex
	cat   *Catalog
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *stubSource) Fetch(ctx context.Context) (*Catalog, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.cat, nil
}

func (s *stubSource) String() string { return "stub" }

func (s *stubSource) set(cat *Catalog, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cat = cat
	s.err = err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPluginsFetchesOnceWithinTTL(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	c := NewCache(src, WithTTL(time.Hour), WithLogger(quietLogger()))

	first := c.Plugins(context.Background())
	second := c.Plugins(context.Background())

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("records = %d/%d, want 3/3", len(first), len(second))
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("fetch count = %d, want 1 (cache hit within TTL)", got)
	}
}

func TestPluginsRefetchesWhenStale(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	c := NewCache(src, WithTTL(time.Hour), WithLogger(quietLogger()))

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Plugins(context.Background())
	now = now.Add(2 * time.Hour)
	c.Plugins(context.Background())

	if got := src.calls.Load(); got != 2 {
		t.Errorf("fetch count = %d, want 2 (TTL elapsed)", got)
	}
}

func TestPluginsEmptyBeforeFirstSuccessfulFetch(t *testing.T) {
	src := &stubSource{err: errors.New("registry unreachable")}
	c := NewCache(src, WithLogger(quietLogger()))

	got := c.Plugins(context.Background())
	if len(got) != 0 {
		t.Errorf("records = %d, want 0", len(got))
	}
	if !c.FetchedAt().IsZero() {
		t.Error("fetchedAt must stay zero after a failed first fetch")
	}
}

func TestStaleRetainOnFetchFailure(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	c := NewCache(src, WithTTL(time.Hour), WithLogger(quietLogger()))

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Plugins(context.Background())
	fetchedAt := c.FetchedAt()

	src.set(nil, errors.New("registry unreachable"))
	now = now.Add(2 * time.Hour)

	got := c.Plugins(context.Background())
	if len(got) != 3 {
		t.Fatalf("records = %d, want 3 (previous snapshot retained)", len(got))
	}
	if !c.FetchedAt().Equal(fetchedAt) {
		t.Error("failed refresh must not touch fetchedAt")
	}

	// Index queries keep answering from the retained snapshot.
	if _, ok := c.PluginByID("a"); !ok {
		t.Error("PluginByID should still hit the retained snapshot")
	}
	if got := c.FilterByCategory("analytics"); len(got) != 2 {
		t.Errorf("FilterByCategory = %d records, want 2", len(got))
	}
}

func TestRefreshIgnoresTTL(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	c := NewCache(src, WithTTL(time.Hour), WithLogger(quietLogger()))

	c.Plugins(context.Background())
	c.Refresh(context.Background())

	if got := src.calls.Load(); got != 2 {
		t.Errorf("fetch count = %d, want 2 (forced refresh refetches)", got)
	}
}

func TestRefreshFailureRetainsSnapshot(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	c := NewCache(src, WithLogger(quietLogger()))

	c.Plugins(context.Background())
	src.set(nil, errors.New("boom"))

	got := c.Refresh(context.Background())
	if len(got) != 3 {
		t.Errorf("records = %d, want 3 after failed forced refresh", len(got))
	}
}

func TestSingleFlightConcurrentCallers(t *testing.T) {
	src := &stubSource{cat: testCatalog(), delay: 50 * time.Millisecond}
	c := NewCache(src, WithTTL(time.Hour), WithLogger(quietLogger()))

	const n = 16
	var wg sync.WaitGroup
	results := make([][]Plugin, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Plugins(context.Background())
		}(i)
	}
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Errorf("fetch count = %d, want 1 (single flight)", got)
	}
	for i, r := range results {
		if len(r) != 3 {
			t.Errorf("caller %d got %d records, want 3", i, len(r))
		}
	}
}

func TestRefreshPersistsDiagnosticState(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	path := filepath.Join(t.TempDir(), "state.json")
	c := NewCache(src, WithStatePath(path), WithLogger(quietLogger()))

	c.Plugins(context.Background())

	doc, err := c.ReadState()
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if doc == nil {
		t.Fatal("expected persisted state after refresh")
	}
	if len(doc.Plugins) != 3 {
		t.Errorf("state plugins = %d, want 3", len(doc.Plugins))
	}
	if doc.Stats.Total != 3 {
		t.Errorf("state stats total = %d, want 3", doc.Stats.Total)
	}
	if doc.FullRegistry == nil || len(doc.FullRegistry.Plugins) != 3 {
		t.Error("state must retain the full raw catalog")
	}
	if !doc.CacheExpiry.Equal(doc.LastUpdated.Add(DefaultTTL)) {
		t.Errorf("cache_expiry = %v, want last_updated + TTL", doc.CacheExpiry)
	}
}

func TestPersistFailureDoesNotFailRefresh(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	// Unwritable state path: the refresh must still succeed.
	c := NewCache(src, WithStatePath("/dev/null/impossible/state.json"), WithLogger(quietLogger()))

	got := c.Plugins(context.Background())
	if len(got) != 3 {
		t.Errorf("records = %d, want 3 despite persistence failure", len(got))
	}
}

func TestReadStateWithoutPersistence(t *testing.T) {
	c := NewCache(&stubSource{cat: testCatalog()}, WithLogger(quietLogger()))
	doc, err := c.ReadState()
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if doc != nil {
		t.Error("expected nil state when persistence is disabled")
	}
}

func TestExpiry(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	c := NewCache(src, WithTTL(30*time.Minute), WithLogger(quietLogger()))

	if !c.Expiry().IsZero() {
		t.Error("expiry must be zero before the first fetch")
	}

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Plugins(context.Background())
	want := now.Add(30 * time.Minute)
	if !c.Expiry().Equal(want) {
		t.Errorf("expiry = %v, want %v", c.Expiry(), want)
	}
}

func TestFetchedAtMonotonic(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	c := NewCache(src, WithLogger(quietLogger()))

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Plugins(context.Background())
	first := c.FetchedAt()

	now = now.Add(5 * time.Minute)
	c.Refresh(context.Background())
	second := c.FetchedAt()

	if second.Before(first) {
		t.Errorf("fetchedAt regressed: %v then %v", first, second)
	}
}

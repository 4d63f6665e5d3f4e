package registry

import (
	"testing"
	"time"
)

func testCatalog() *Catalog {
	return &Catalog{
		SchemaVersion: "1",
		Plugins: []Plugin{
			{
				ID:           "a",
				Name:         "Agent One",
				Categories:   []string{"analytics"},
				Integrations: []string{"bigcommerce"},
				Keywords:     []string{"metrics"},
				Models:       []Model{{Name: "m1", Modalities: []string{"text"}}},
			},
			{
				ID:           "b",
				Name:         "Agent Two",
				Categories:   []string{"crm"},
				Integrations: []string{"shopify"},
				Keywords:     []string{"customers", "metrics"},
				Models:       []Model{{Name: "m2", Modalities: []string{"text", "voice"}}},
				Configuration: Configuration{
					Pricing: Pricing{Price: 10, Model: "subscription", Tier: "basic"},
				},
			},
			{
				ID:           "c",
				Name:         "Courier",
				Categories:   []string{"analytics", "crm"},
				Integrations: []string{"shopify", "woocommerce"},
				Configuration: Configuration{
					Pricing: Pricing{Price: 25, Model: "usage", Tier: "pro"},
				},
				LastUpdated: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestSnapshotIndexesBijection(t *testing.T) {
	cat := testCatalog()
	snap := newSnapshot(cat, time.Now())

	if len(snap.byID) != len(snap.records) {
		t.Fatalf("byID size = %d, records = %d", len(snap.byID), len(snap.records))
	}
	for _, r := range snap.records {
		got, ok := snap.byID[r.ID]
		if !ok {
			t.Fatalf("record %q missing from byID", r.ID)
		}
		if got.ID != r.ID {
			t.Errorf("byID[%q].ID = %q", r.ID, got.ID)
		}
	}
}

func TestSnapshotCategoryBuckets(t *testing.T) {
	snap := newSnapshot(testCatalog(), time.Now())

	// Every record tagged with a category appears in that bucket exactly once.
	for cat, bucket := range snap.byCategory {
		seen := map[string]int{}
		for _, p := range bucket {
			seen[p.ID]++
			found := false
			for _, c := range p.Categories {
				if c == cat {
					found = true
				}
			}
			if !found {
				t.Errorf("plugin %q in bucket %q without the tag", p.ID, cat)
			}
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("plugin %q appears %d times in bucket %q", id, n, cat)
			}
		}
	}

	// And the reverse: every tagged record is in the bucket.
	for _, p := range snap.records {
		for _, c := range p.Categories {
			found := false
			for _, bp := range snap.byCategory[c] {
				if bp.ID == p.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("plugin %q missing from bucket %q", p.ID, c)
			}
		}
	}

	if got := len(snap.byCategory["analytics"]); got != 2 {
		t.Errorf("analytics bucket size = %d, want 2", got)
	}
	if got := len(snap.byIntegration["shopify"]); got != 2 {
		t.Errorf("shopify bucket size = %d, want 2", got)
	}
}

func TestSnapshotNameIndexLastWriteWins(t *testing.T) {
	cat := &Catalog{Plugins: []Plugin{
		{ID: "first", Name: "Duplicate"},
		{ID: "second", Name: "duplicate"},
	}}
	snap := newSnapshot(cat, time.Now())

	got, ok := snap.byName["duplicate"]
	if !ok {
		t.Fatal("name missing from index")
	}
	if got.ID != "second" {
		t.Errorf("byName winner = %q, want %q (last write wins)", got.ID, "second")
	}
}

func TestSnapshotFreshness(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute

	snap := newSnapshot(testCatalog(), now)
	if !snap.fresh(now.Add(5*time.Minute), ttl) {
		t.Error("expected fresh within TTL")
	}
	if snap.fresh(now.Add(10*time.Minute), ttl) {
		t.Error("expected stale at TTL boundary")
	}

	if emptySnapshot().fresh(now, ttl) {
		t.Error("empty snapshot must never be fresh")
	}

	// An empty catalog is also never fresh even right after a fetch.
	emptyCat := newSnapshot(&Catalog{}, now)
	if emptyCat.fresh(now, ttl) {
		t.Error("zero-plugin snapshot must not be fresh")
	}
}

func TestSnapshotInvalidated(t *testing.T) {
	snap := newSnapshot(testCatalog(), time.Now())
	inv := snap.invalidated()

	if !inv.fetchedAt.IsZero() {
		t.Error("invalidated snapshot should have zero fetchedAt")
	}
	if len(inv.records) != len(snap.records) {
		t.Error("invalidation must keep the data servable")
	}
	if snap.fetchedAt.IsZero() {
		t.Error("invalidated must not mutate the original snapshot")
	}
}

package registry

import (
	"strings"
	"time"
)

// snapshot is the cache's unit of atomic replacement: the catalog's records
// in catalog order plus every derived index, all built together from one
// fetch result. A snapshot is never mutated after construction; the cache
// replaces the whole pointer on refresh.
type snapshot struct {
	records       []Plugin
	byID          map[string]Plugin
	byName        map[string]Plugin // lowercased name → record, last write wins
	byCategory    map[string][]Plugin
	byIntegration map[string][]Plugin
	fetchedAt     time.Time // zero before the first successful fetch
	raw           *Catalog
}

// newSnapshot builds a snapshot and all its indexes from a fetched catalog.
func newSnapshot(cat *Catalog, fetchedAt time.Time) *snapshot {
	s := &snapshot{
		records:       cat.Plugins,
		byID:          make(map[string]Plugin, len(cat.Plugins)),
		byName:        make(map[string]Plugin, len(cat.Plugins)),
		byCategory:    make(map[string][]Plugin),
		byIntegration: make(map[string][]Plugin),
		fetchedAt:     fetchedAt,
		raw:           cat,
	}
	for _, p := range cat.Plugins {
		s.byID[p.ID] = p
		s.byName[strings.ToLower(p.Name)] = p
		for _, c := range p.Categories {
			s.byCategory[c] = append(s.byCategory[c], p)
		}
		for _, in := range p.Integrations {
			s.byIntegration[in] = append(s.byIntegration[in], p)
		}
	}
	return s
}

// emptySnapshot is the state before the first successful fetch.
func emptySnapshot() *snapshot {
	return &snapshot{
		byID:          map[string]Plugin{},
		byName:        map[string]Plugin{},
		byCategory:    map[string][]Plugin{},
		byIntegration: map[string][]Plugin{},
	}
}

// invalidated returns a copy of the snapshot with fetchedAt cleared, which
// makes the next read treat it as stale while its data stays servable.
func (s *snapshot) invalidated() *snapshot {
	out := *s
	out.fetchedAt = time.Time{}
	return &out
}

// fresh reports whether the snapshot can answer reads without a refetch.
// An empty snapshot is never fresh: a catalog with zero plugins is
// indistinguishable from a failed first fetch, so it is always re-checked.
func (s *snapshot) fresh(now time.Time, ttl time.Duration) bool {
	if s.fetchedAt.IsZero() || len(s.records) == 0 {
		return false
	}
	return now.Sub(s.fetchedAt) < ttl
}

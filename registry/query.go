package registry

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// All query methods are synchronous reads over the current snapshot: no I/O,
// no mutation, and no refresh is triggered. Callers that want freshness call
// Plugins or Refresh first.

// PluginByID returns the record with the given id.
func (c *Cache) PluginByID(id string) (Plugin, bool) {
	p, ok := c.current().byID[id]
	return p, ok
}

// IDByName resolves a display name (case-insensitive) to a plugin id.
// On duplicate names the last record in catalog order wins; this mirrors how
// the name index is built and is documented behavior, not a bug.
func (c *Cache) IDByName(name string) (string, bool) {
	p, ok := c.current().byName[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return p.ID, true
}

// FilterByName returns records whose name contains term, case-insensitively.
// An empty term matches everything.
func (c *Cache) FilterByName(term string) []Plugin {
	snap := c.current()
	if term == "" {
		return slices.Clone(snap.records)
	}
	term = strings.ToLower(term)
	var out []Plugin
	for _, p := range snap.records {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByPrice returns records whose price falls in [min, max], inclusive on
// both bounds. A missing price counts as 0. Pass math.Inf(1) as max for an
// unbounded upper limit.
func (c *Cache) FilterByPrice(min, max float64) []Plugin {
	var out []Plugin
	for _, p := range c.current().records {
		price := p.Price()
		if price >= min && price <= max {
			out = append(out, p)
		}
	}
	return out
}

// FilterByKeywords returns records whose keyword set intersects the given
// terms, case-insensitively. An empty input matches everything.
func (c *Cache) FilterByKeywords(keywords []string) []Plugin {
	snap := c.current()
	if len(keywords) == 0 {
		return slices.Clone(snap.records)
	}
	want := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		want[strings.ToLower(k)] = true
	}
	var out []Plugin
	for _, p := range snap.records {
		for _, k := range p.Keywords {
			if want[strings.ToLower(k)] {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// FilterByCategory returns the category's bucket, empty for unknown tags.
func (c *Cache) FilterByCategory(category string) []Plugin {
	return slices.Clone(c.current().byCategory[category])
}

// FilterByIntegration returns the integration's bucket, empty for unknown tags.
func (c *Cache) FilterByIntegration(integration string) []Plugin {
	return slices.Clone(c.current().byIntegration[integration])
}

// FilterByModality returns records where any declared model lists the
// given modality.
func (c *Cache) FilterByModality(modality string) []Plugin {
	var out []Plugin
	for _, p := range c.current().records {
		if p.SupportsModality(modality) {
			out = append(out, p)
		}
	}
	return out
}

// Criteria combines filters for a multi-criteria query. Zero-valued fields
// are no-ops.
type Criteria struct {
	Name        string
	Category    string
	Integration string
	Keywords    []string
	Modality    string
	MinPrice    *float64
	MaxPrice    *float64
}

// Filter applies all supplied criteria as a sequential AND, in a fixed order:
// name, category, integration, keywords, modality, price.
func (c *Cache) Filter(crit Criteria) []Plugin {
	out := c.FilterByName(crit.Name)

	if crit.Category != "" {
		out = keepIf(out, func(p Plugin) bool {
			return slices.Contains(p.Categories, crit.Category)
		})
	}
	if crit.Integration != "" {
		out = keepIf(out, func(p Plugin) bool {
			return slices.Contains(p.Integrations, crit.Integration)
		})
	}
	if len(crit.Keywords) > 0 {
		want := make(map[string]bool, len(crit.Keywords))
		for _, k := range crit.Keywords {
			want[strings.ToLower(k)] = true
		}
		out = keepIf(out, func(p Plugin) bool {
			for _, k := range p.Keywords {
				if want[strings.ToLower(k)] {
					return true
				}
			}
			return false
		})
	}
	if crit.Modality != "" {
		out = keepIf(out, func(p Plugin) bool {
			return p.SupportsModality(crit.Modality)
		})
	}
	if crit.MinPrice != nil || crit.MaxPrice != nil {
		out = keepIf(out, func(p Plugin) bool {
			price := p.Price()
			if crit.MinPrice != nil && price < *crit.MinPrice {
				return false
			}
			if crit.MaxPrice != nil && price > *crit.MaxPrice {
				return false
			}
			return true
		})
	}
	return out
}

func keepIf(records []Plugin, keep func(Plugin) bool) []Plugin {
	var out []Plugin
	for _, p := range records {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct category tags, sorted for determinism.
func (c *Cache) Categories() []string {
	return sortedKeys(c.current().byCategory)
}

// Integrations returns the distinct integration tags, sorted for determinism.
func (c *Cache) Integrations() []string {
	return sortedKeys(c.current().byIntegration)
}

// Modalities returns the distinct modality strings across all records'
// models, sorted for determinism.
func (c *Cache) Modalities() []string {
	seen := map[string]bool{}
	for _, p := range c.current().records {
		for _, m := range p.Models {
			for _, mod := range m.Modalities {
				seen[mod] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for mod := range seen {
		out = append(out, mod)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string][]Plugin) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PricingEntry is one row of the pricing summary projection.
type PricingEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	PricingModel string  `json:"pricing_model,omitempty"`
	Tier         string  `json:"tier,omitempty"`
}

// PricingSummary projects every record into its pricing descriptor.
func (c *Cache) PricingSummary() []PricingEntry {
	snap := c.current()
	out := make([]PricingEntry, 0, len(snap.records))
	for _, p := range snap.records {
		out = append(out, PricingEntry{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price(),
			PricingModel: p.Configuration.Pricing.Model,
			Tier:         p.Configuration.Pricing.Tier,
		})
	}
	return out
}

// Stats summarizes the current snapshot.
type Stats struct {
	Total        int       `json:"total"`
	Categories   int       `json:"categories"`
	Integrations int       `json:"integrations"`
	Modalities   int       `json:"modalities"`
	LastUpdated  time.Time `json:"last_updated,omitzero"`
	CacheExpiry  time.Time `json:"cache_expiry,omitzero"`
}

// Stats returns aggregate counts plus the snapshot's fetch and expiry times.
func (c *Cache) Stats() Stats {
	return c.statsOf(c.current())
}

func (c *Cache) statsOf(snap *snapshot) Stats {
	modalities := map[string]bool{}
	for _, p := range snap.records {
		for _, m := range p.Models {
			for _, mod := range m.Modalities {
				modalities[mod] = true
			}
		}
	}
	s := Stats{
		Total:        len(snap.records),
		Categories:   len(snap.byCategory),
		Integrations: len(snap.byIntegration),
		Modalities:   len(modalities),
		LastUpdated:  snap.fetchedAt,
	}
	if !snap.fetchedAt.IsZero() {
		s.CacheExpiry = snap.fetchedAt.Add(c.ttl)
	}
	return s
}

// Field accessors. Each returns the zero value when the record or the field
// is absent; a missing plugin is never an error.

// RemoteEntryProduction returns the production remote-entry URL for a plugin.
func (c *Cache) RemoteEntryProduction(id string) string {
	p, _ := c.PluginByID(id)
	return p.UI.RemoteEntryProduction
}

// RemoteEntryStaging returns the staging remote-entry URL for a plugin.
func (c *Cache) RemoteEntryStaging(id string) string {
	p, _ := c.PluginByID(id)
	return p.UI.RemoteEntryStaging
}

// AppIcons returns a plugin's icon URLs.
func (c *Cache) AppIcons(id string) Icons {
	p, _ := c.PluginByID(id)
	return Icons{Large: p.UI.IconLarge, Small: p.UI.IconSmall}
}

// Screenshots returns a plugin's screenshot URL list.
func (c *Cache) Screenshots(id string) []string {
	p, _ := c.PluginByID(id)
	return slices.Clone(p.UI.Screenshots)
}

// ManifestURL returns a plugin's manifest URL.
func (c *Cache) ManifestURL(id string) string {
	p, _ := c.PluginByID(id)
	return p.UI.ManifestURL
}

// Description returns a plugin's description.
func (c *Cache) Description(id string) string {
	p, _ := c.PluginByID(id)
	return p.Description
}

// Configuration returns a plugin's raw configuration blob, nil when absent.
func (c *Cache) Configuration(id string) map[string]any {
	p, _ := c.PluginByID(id)
	return p.Configuration.Raw
}

package tui

import (
	"strings"

	"github.com/pluginhub-hq/pluginhub/registry"
)

// filterState tracks the active filter configuration.
type filterState struct {
	categories  []string // facet values the category toggle cycles through
	categoryIdx int      // -1 = all, otherwise index into categories
	search      string   // free-text search query
	searching   bool     // true when search input is active
}

func newFilterState(categories []string) filterState {
	return filterState{categories: categories, categoryIdx: -1}
}

// cycleCategory advances the category filter to the next facet value.
func (f *filterState) cycleCategory() {
	f.categoryIdx++
	if f.categoryIdx >= len(f.categories) {
		f.categoryIdx = -1
	}
}

// activeCategory returns the current category filter, or "all".
func (f *filterState) activeCategory() string {
	if f.categoryIdx < 0 {
		return "all"
	}
	return f.categories[f.categoryIdx]
}

// matchesPlugin returns true if the plugin passes all active filters.
func (f *filterState) matchesPlugin(p registry.Plugin) bool {
	// Category filter.
	if f.categoryIdx >= 0 {
		want := f.categories[f.categoryIdx]
		found := false
		for _, c := range p.Categories {
			if strings.EqualFold(c, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Search filter.
	if f.search != "" {
		q := strings.ToLower(f.search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.ID), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(strings.Join(p.Keywords, " ")), q) {
			return false
		}
	}

	return true
}

// filterPlugins returns plugins that pass the active filters.
func (f *filterState) filterPlugins(all []registry.Plugin) []registry.Plugin {
	var result []registry.Plugin
	for _, p := range all {
		if f.matchesPlugin(p) {
			result = append(result, p)
		}
	}
	return result
}

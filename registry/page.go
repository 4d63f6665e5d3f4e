package registry

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// nameCollator performs locale-aware string comparison for name sorting.
// collate.Collator is not safe for concurrent use, so each sort builds its
// own; construction is cheap relative to a sort.
func nameCollator() *collate.Collator {
	return collate.New(language.Und)
}

// SortByName sorts records by display name, locale-aware ascending. The sort
// is stable so equal names keep catalog order.
func SortByName(records []Plugin) {
	col := nameCollator()
	sort.SliceStable(records, func(i, j int) bool {
		return col.CompareString(records[i].Name, records[j].Name) < 0
	})
}

// SortByPrice sorts records by price ascending; a missing price counts as 0.
func SortByPrice(records []Plugin) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Price() < records[j].Price()
	})
}

// SortByRecency sorts records by LastUpdated descending; records without a
// timestamp sort last.
func SortByRecency(records []Plugin) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastUpdated.After(records[j].LastUpdated)
	})
}

// Paginate slices records into 1-indexed pages of the given size and returns
// the requested page plus the total page count. Out-of-range pages yield an
// empty slice, never an error. A non-positive size is normalized to 1.
func Paginate(records []Plugin, page, size int) ([]Plugin, int) {
	if size < 1 {
		size = 1
	}
	totalPages := (len(records) + size - 1) / size

	if page < 1 || page > totalPages {
		return []Plugin{}, totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}

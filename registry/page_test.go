package registry

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func numberedPlugins(n int) []Plugin {
	out := make([]Plugin, n)
	for i := range out {
		out[i] = Plugin{ID: fmt.Sprintf("p%02d", i), Name: fmt.Sprintf("Plugin %02d", i)}
	}
	return out
}

func TestPaginate(t *testing.T) {
	records := numberedPlugins(12)

	page, total := Paginate(records, 2, 5)
	if total != 3 {
		t.Errorf("totalPages = %d, want 3", total)
	}
	if !reflect.DeepEqual(ids(page), ids(records[5:10])) {
		t.Errorf("page 2 = %v, want records[5:10]", ids(page))
	}

	page, total = Paginate(records, 3, 5)
	if len(page) != 2 || total != 3 {
		t.Errorf("last page = %d records/%d pages, want 2/3", len(page), total)
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	records := numberedPlugins(12)

	for _, page := range []int{0, -1, 4, 99} {
		got, total := Paginate(records, page, 5)
		if len(got) != 0 {
			t.Errorf("page %d = %d records, want empty slice", page, len(got))
		}
		if total != 3 {
			t.Errorf("page %d totalPages = %d, want 3", page, total)
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	got, total := Paginate(nil, 1, 5)
	if len(got) != 0 || total != 0 {
		t.Errorf("empty input = %d records/%d pages, want 0/0", len(got), total)
	}
}

func TestSortByName(t *testing.T) {
	records := []Plugin{
		{ID: "1", Name: "zeta"},
		{ID: "2", Name: "Alpha"},
		{ID: "3", Name: "émile"},
		{ID: "4", Name: "beta"},
	}
	SortByName(records)

	// Locale-aware comparison: case and accents do not push entries to the
	// end the way raw byte ordering would.
	want := []string{"2", "4", "3", "1"}
	if !reflect.DeepEqual(ids(records), want) {
		t.Errorf("SortByName order = %v, want %v", ids(records), want)
	}
}

func TestSortByPrice(t *testing.T) {
	records := []Plugin{
		{ID: "exp", Configuration: Configuration{Pricing: Pricing{Price: 30}}},
		{ID: "free"}, // missing price sorts as 0
		{ID: "mid", Configuration: Configuration{Pricing: Pricing{Price: 9.99}}},
	}
	SortByPrice(records)

	want := []string{"free", "mid", "exp"}
	if !reflect.DeepEqual(ids(records), want) {
		t.Errorf("SortByPrice order = %v, want %v", ids(records), want)
	}
}

func TestSortByRecency(t *testing.T) {
	records := []Plugin{
		{ID: "old", LastUpdated: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "unset"}, // missing timestamp sorts last
		{ID: "new", LastUpdated: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	SortByRecency(records)

	want := []string{"new", "old", "unset"}
	if !reflect.DeepEqual(ids(records), want) {
		t.Errorf("SortByRecency order = %v, want %v", ids(records), want)
	}
}

func TestSortStability(t *testing.T) {
	records := []Plugin{
		{ID: "first", Name: "Same"},
		{ID: "second", Name: "Same"},
	}
	SortByName(records)

	if records[0].ID != "first" {
		t.Error("equal names must keep catalog order")
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pluginhub-hq/pluginhub/registry"
)

// runPlugins implements the "pluginhub plugins" command.
func runPlugins(env cmdEnv, args []string) int {
	fs := flag.NewFlagSet("plugins", flag.ContinueOnError)

	var (
		name        string
		category    string
		integration string
		keywords    string
		modality    string
		minPrice    float64
		maxPrice    float64
		sortBy      string
		page        int
		limit       int
		jsonOutput  bool
	)

	fs.StringVar(&name, "name", "", "filter by name substring")
	fs.StringVar(&category, "category", "", "filter by category")
	fs.StringVar(&integration, "integration", "", "filter by integration")
	fs.StringVar(&keywords, "keywords", "", "filter by keywords (comma-separated, all must match)")
	fs.StringVar(&modality, "modality", "", "filter by supported modality")
	fs.Float64Var(&minPrice, "min-price", math.NaN(), "minimum price")
	fs.Float64Var(&maxPrice, "max-price", math.NaN(), "maximum price")
	fs.StringVar(&sortBy, "sort", "name", "sort order: name, price, updated")
	fs.IntVar(&page, "page", 1, "page number (1-indexed)")
	fs.IntVar(&limit, "limit", 0, "page size (default: from config)")
	fs.BoolVar(&jsonOutput, "json", false, "output as JSON")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cache, cfg, err := newCache(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if limit <= 0 {
		limit = cfg.Output.PageSize
	}

	cache.Plugins(context.Background())

	crit := registry.Criteria{
		Name:        name,
		Category:    category,
		Integration: integration,
		Modality:    modality,
	}
	if keywords != "" {
		for _, k := range strings.Split(keywords, ",") {
			if k = strings.TrimSpace(k); k != "" {
				crit.Keywords = append(crit.Keywords, k)
			}
		}
	}
	if !math.IsNaN(minPrice) {
		crit.MinPrice = &minPrice
	}
	if !math.IsNaN(maxPrice) {
		crit.MaxPrice = &maxPrice
	}

	records := cache.Filter(crit)

	switch sortBy {
	case "name":
		registry.SortByName(records)
	case "price":
		registry.SortByPrice(records)
	case "updated":
		registry.SortByRecency(records)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown sort order %q\n", sortBy)
		return 2
	}

	total := len(records)
	records, totalPages := registry.Paginate(records, page, limit)

	if jsonOutput {
		return printJSON(map[string]any{
			"plugins":     records,
			"page":        page,
			"total_pages": totalPages,
			"total":       total,
		})
	}

	if total == 0 {
		fmt.Println("No plugins match the given filters.")
		return 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tCATEGORIES\tPRICE")
	for _, p := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Version,
			strings.Join(p.Categories, ","),
			formatPrice(p))
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d plugins total)\n", page, totalPages, total)
	return 0
}

// runSearch implements "pluginhub search <text>", a shorthand for a
// name-filtered listing.
func runSearch(env cmdEnv, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pluginhub search <text> [flags]")
		return 2
	}
	query := args[0]
	return runPlugins(env, append([]string{"--name", query}, args[1:]...))
}

func formatPrice(p registry.Plugin) string {
	price := p.Price()
	if price == 0 {
		return "free"
	}
	model := p.Configuration.Pricing.Model
	if model != "" {
		return fmt.Sprintf("%.2f (%s)", price, model)
	}
	return fmt.Sprintf("%.2f", price)
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: marshalling JSON: %v\n", err)
		return 2
	}
	fmt.Println(string(data))
	return 0
}

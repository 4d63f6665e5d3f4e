package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// runStats implements the "pluginhub stats" command.
func runStats(env cmdEnv, args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "output as JSON")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cache, _, err := newCache(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	cache.Plugins(context.Background())

	stats := cache.Stats()
	if jsonOutput {
		return printJSON(stats)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Plugins:\t%d\n", stats.Total)
	fmt.Fprintf(w, "Categories:\t%d\t(%s)\n", stats.Categories, strings.Join(cache.Categories(), ", "))
	fmt.Fprintf(w, "Integrations:\t%d\t(%s)\n", stats.Integrations, strings.Join(cache.Integrations(), ", "))
	fmt.Fprintf(w, "Modalities:\t%d\t(%s)\n", stats.Modalities, strings.Join(cache.Modalities(), ", "))
	if !stats.LastUpdated.IsZero() {
		fmt.Fprintf(w, "Last updated:\t%s\n", stats.LastUpdated.Format("2006-01-02 15:04"))
	}
	if !stats.CacheExpiry.IsZero() {
		fmt.Fprintf(w, "Cache expires:\t%s\n", stats.CacheExpiry.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return 0
}

// runRefresh implements the "pluginhub refresh" command.
func runRefresh(env cmdEnv, args []string) int {
	fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cache, _, err := newCache(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	records := cache.Refresh(context.Background())
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "error: refresh returned no plugins")
		return 1
	}

	stats := cache.Stats()
	fmt.Printf("Refreshed: %d plugins, %d categories, %d integrations\n",
		stats.Total, stats.Categories, stats.Integrations)
	return 0
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// runShow implements the "pluginhub show" command.
func runShow(env cmdEnv, args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "output as JSON")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pluginhub show <plugin> [flags]")
		return 2
	}
	key := fs.Arg(0)

	cache, _, err := newCache(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	cache.Plugins(context.Background())

	p, ok := cache.PluginByID(key)
	if !ok {
		if id, found := cache.IDByName(key); found {
			p, ok = cache.PluginByID(id)
		}
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "error: plugin %q not found\n", key)
		return 1
	}

	if jsonOutput {
		return printJSON(p)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	if p.Version != "" {
		fmt.Fprintf(w, "Version:\t%s\n", p.Version)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", p.Description)
	}
	if len(p.Categories) > 0 {
		fmt.Fprintf(w, "Categories:\t%s\n", strings.Join(p.Categories, ", "))
	}
	if len(p.Integrations) > 0 {
		fmt.Fprintf(w, "Integrations:\t%s\n", strings.Join(p.Integrations, ", "))
	}
	if len(p.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords:\t%s\n", strings.Join(p.Keywords, ", "))
	}
	fmt.Fprintf(w, "Price:\t%s\n", formatPrice(p))
	for _, model := range p.Models {
		fmt.Fprintf(w, "Model:\t%s (%s)\n", model.Name, strings.Join(model.Modalities, ", "))
	}
	if p.UI.ManifestURL != "" {
		fmt.Fprintf(w, "Manifest:\t%s\n", p.UI.ManifestURL)
	}
	if p.UI.RemoteEntryProduction != "" {
		fmt.Fprintf(w, "Remote entry:\t%s\n", p.UI.RemoteEntryProduction)
	}
	if !p.LastUpdated.IsZero() {
		fmt.Fprintf(w, "Last updated:\t%s\n", p.LastUpdated.Format("2006-01-02"))
	}
	w.Flush()
	return 0
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/pluginhub-hq/pluginhub/cli/tui"
	"github.com/pluginhub-hq/pluginhub/registry"
)

// runBrowse implements the "pluginhub browse" command.
func runBrowse(env cmdEnv, args []string) int {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)

	var (
		category    string
		integration string
		keywords    string
		jsonOutput  bool
	)

	fs.StringVar(&category, "category", "", "pre-filter by category")
	fs.StringVar(&integration, "integration", "", "pre-filter by integration")
	fs.StringVar(&keywords, "keywords", "", "pre-filter by keywords (comma-separated)")
	fs.BoolVar(&jsonOutput, "json", false, "output JSON instead of TUI")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cache, _, err := newCache(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	cache.Plugins(context.Background())

	crit := registry.Criteria{
		Category:    category,
		Integration: integration,
	}
	if keywords != "" {
		for _, k := range strings.Split(keywords, ",") {
			if k = strings.TrimSpace(k); k != "" {
				crit.Keywords = append(crit.Keywords, k)
			}
		}
	}

	records := cache.Filter(crit)
	registry.SortByName(records)

	if len(records) == 0 {
		fmt.Println("No plugins to browse.")
		return 1
	}

	// Non-interactive: JSON output.
	if jsonOutput || !isTerminal() {
		return printJSON(records)
	}

	m := tui.New(records, cache.Categories())
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: TUI failed: %v\n", err)
		return 2
	}
	return 0
}

// isTerminal returns true if stdout is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

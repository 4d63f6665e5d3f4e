package tui

import (
	"fmt"
	"strings"

	"github.com/pluginhub-hq/pluginhub/registry"
)

// renderList renders the plugin list view.
func renderList(m *Model) string {
	var b strings.Builder

	// Header.
	title := titleStyle.Render(fmt.Sprintf(" pluginhub — %d plugins", len(m.filtered)))
	if len(m.records) != len(m.filtered) {
		title += subtleStyle.Render(fmt.Sprintf(" (of %d total)", len(m.records)))
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	// Filter status.
	filterLine := subtleStyle.Render(" Category: ") +
		"[" + m.filter.activeCategory() + "]"
	if m.filter.search != "" {
		filterLine += subtleStyle.Render("  Search: ") + "[" + m.filter.search + "]"
	}
	b.WriteString(filterLine)
	b.WriteString("\n\n")

	// Plugin list.
	if len(m.filtered) == 0 {
		b.WriteString(subtleStyle.Render("  No plugins match the current filters.\n"))
	} else {
		// Calculate visible window.
		visibleLines := m.height - 8 // Header + filter + help lines.
		if visibleLines < 1 {
			visibleLines = 1
		}
		start := m.cursor - visibleLines/2
		if start < 0 {
			start = 0
		}
		end := start + visibleLines
		if end > len(m.filtered) {
			end = len(m.filtered)
			start = end - visibleLines
			if start < 0 {
				start = 0
			}
		}

		for i := start; i < end; i++ {
			p := m.filtered[i]
			line := renderPluginLine(p, i == m.cursor)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	// Search input.
	if m.filter.searching {
		b.WriteString("\n")
		b.WriteString(" Search: " + m.filter.search + "█")
		b.WriteString("\n")
	}

	// Help.
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" ↑↓ navigate  enter detail  / search  c category  q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderPluginLine renders a single plugin line in the list.
func renderPluginLine(p registry.Plugin, selected bool) string {
	badge := priceBadge(p)
	id := idStyle.Render(fmt.Sprintf("%-20s", p.ID))
	cats := categoryStyle.Render(fmt.Sprintf("%-24s", strings.Join(p.Categories, ",")))

	line := fmt.Sprintf(" %s  %s  %s  %s", badge, id, cats, p.Name)

	if selected {
		return selectedStyle.Render("▸") + line
	}
	return " " + line
}

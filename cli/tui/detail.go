package tui

import (
	"fmt"
	"strings"
)

// renderDetail renders the detail view for a single plugin.
func renderDetail(m *Model) string {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return "No plugin selected."
	}

	p := m.filtered[m.cursor]

	var b strings.Builder

	// Header.
	b.WriteString(fmt.Sprintf(" %s · %s · %s\n",
		idStyle.Render(p.ID),
		p.Name,
		priceBadge(p)))
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	if p.Version != "" {
		b.WriteString(" " + subtleStyle.Render("v"+p.Version) + "\n")
	}
	if !p.LastUpdated.IsZero() {
		b.WriteString(" " + subtleStyle.Render("updated "+p.LastUpdated.Format("2006-01-02")) + "\n")
	}
	b.WriteString("\n")

	// Description.
	if p.Description != "" {
		b.WriteString(wrapText(p.Description, m.width-4, "  "))
		b.WriteString("\n")
	}

	// Facets.
	if len(p.Categories) > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render("Categories") + "  " +
			categoryStyle.Render(strings.Join(p.Categories, ", ")) + "\n")
	}
	if len(p.Integrations) > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render("Integrations") + "  " +
			strings.Join(p.Integrations, ", ") + "\n")
	}
	if len(p.Keywords) > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render("Keywords") + "  " +
			subtleStyle.Render(strings.Join(p.Keywords, ", ")) + "\n")
	}
	b.WriteString("\n")

	// Models.
	if len(p.Models) > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render("Models") + "\n")
		for _, model := range p.Models {
			b.WriteString(fmt.Sprintf("   %s  %s\n",
				model.Name,
				subtleStyle.Render(strings.Join(model.Modalities, ", "))))
		}
		b.WriteString("\n")
	}

	// Pricing.
	pricing := p.Configuration.Pricing
	if pricing.Model != "" || pricing.Tier != "" {
		b.WriteString(" " + sectionHeaderStyle.Render("Pricing") + "\n")
		if pricing.Model != "" {
			b.WriteString("   model: " + pricing.Model + "\n")
		}
		if pricing.Tier != "" {
			b.WriteString("   tier: " + pricing.Tier + "\n")
		}
		b.WriteString("\n")
	}

	// Links.
	var links []string
	if p.UI.ManifestURL != "" {
		links = append(links, p.UI.ManifestURL)
	}
	if p.UI.RemoteEntryProduction != "" {
		links = append(links, p.UI.RemoteEntryProduction)
	}
	links = append(links, p.UI.Screenshots...)
	if len(links) > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render("Links") + "\n")
		for _, link := range links {
			b.WriteString("   " + urlStyle.Render(link) + "\n")
		}
		b.WriteString("\n")
	}

	// Help.
	b.WriteString(helpStyle.Render(" esc back  n/p next/prev  q quit"))
	b.WriteString("\n")

	return b.String()
}

// wrapText wraps text at the given width with the given indent prefix.
func wrapText(text string, width int, indent string) string {
	if width <= 0 {
		width = 78
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(indent)
	lineLen := len(indent)

	for i, word := range words {
		if i > 0 && lineLen+1+len(word) > width {
			b.WriteString("\n" + indent)
			lineLen = len(indent)
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	b.WriteString("\n")
	return b.String()
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pluginhub-hq/pluginhub/registry"
)

var (
	// Price colors.
	colorFree = lipgloss.Color("#A3BE8C")
	colorPaid = lipgloss.Color("#FFD700")

	// UI colors.
	colorTitle    = lipgloss.Color("#FFFFFF")
	colorSubtle   = lipgloss.Color("#666666")
	colorSelected = lipgloss.Color("#7D56F4")

	// Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSelected)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSubtle)

	idStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#AAAAAA"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#88C0D0"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#A3BE8C"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B48EAD"))
)

// priceBadge returns a short styled price string for list display.
func priceBadge(p registry.Plugin) string {
	price := p.Price()
	if price == 0 {
		return lipgloss.NewStyle().Bold(true).Foreground(colorFree).Render("  free")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorPaid).Render(fmt.Sprintf("%6.2f", price))
}

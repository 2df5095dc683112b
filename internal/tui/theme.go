package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha (dark) and Latte (light).
const (
	mochaBase    lipgloss.Color = "#1e1e2e"
	mochaText    lipgloss.Color = "#cdd6f4"
	mochaSubtext lipgloss.Color = "#a6adc8"
	mochaSurface lipgloss.Color = "#313244"
	mochaAccent  lipgloss.Color = "#f5c2e7"
	mochaWarning lipgloss.Color = "#f9e2af"
	latteBase    lipgloss.Color = "#eff1f5"
	latteText    lipgloss.Color = "#4c4f69"
	latteSubtext lipgloss.Color = "#6c6f85"
	latteSurface lipgloss.Color = "#ccd0da"
	latteAccent  lipgloss.Color = "#ea76cb"
	latteWarning lipgloss.Color = "#df8e1d"
)

type palette struct {
	base, text, subtext, surface, accent, warning lipgloss.Color
}

var (
	darkPalette  = palette{mochaBase, mochaText, mochaSubtext, mochaSurface, mochaAccent, mochaWarning}
	lightPalette = palette{latteBase, latteText, latteSubtext, latteSurface, latteAccent, latteWarning}
)

// styles is the set of styles for one theme.
type styles struct {
	app     lipgloss.Style
	title   lipgloss.Style
	crumbs  lipgloss.Style
	counter lipgloss.Style
	loading lipgloss.Style
	footer  lipgloss.Style
	status  lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		app:     lipgloss.NewStyle().Foreground(p.text).Background(p.base).Padding(1, 2),
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		crumbs:  lipgloss.NewStyle().Foreground(p.subtext),
		counter: lipgloss.NewStyle().Bold(true).Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 2),
		loading: lipgloss.NewStyle().Foreground(p.warning),
		footer:  lipgloss.NewStyle().Foreground(p.text).Background(p.surface).Padding(0, 2),
		status:  lipgloss.NewStyle().Foreground(p.subtext),
	}
}

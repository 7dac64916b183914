// Package theme holds the color palette used by internal/render: the UI
// role colors (foreground, borders, ref-label colors) plus the lane
// palette the renderer cycles through for graph edges.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme carries every color role the renderer and the outer TUI need.
type Theme struct {
	Background        lipgloss.Color
	BackgroundPanel   lipgloss.Color
	BackgroundElement lipgloss.Color

	Foreground    lipgloss.Color
	Subtext       lipgloss.Color
	Border        lipgloss.Color
	Selection     lipgloss.Color
	BranchMain    lipgloss.Color
	BranchFeature lipgloss.Color
	BranchHotfix  lipgloss.Color
	Tag           lipgloss.Color
	Head          lipgloss.Color
	CommitHash    lipgloss.Color

	// Graph1..Graph8: the lane palette. Eight entries satisfy both the
	// "at least 8 distinct hues" and "minimum six lane colors for
	// conformance" language of the cell renderer's color contract.
	Graph1 lipgloss.Color
	Graph2 lipgloss.Color
	Graph3 lipgloss.Color
	Graph4 lipgloss.Color
	Graph5 lipgloss.Color
	Graph6 lipgloss.Color
	Graph7 lipgloss.Color
	Graph8 lipgloss.Color
}

// Lanes returns the eight-entry lane color palette in cycle order.
func (t Theme) Lanes() []lipgloss.Color {
	return []lipgloss.Color{
		t.Graph1, t.Graph2, t.Graph3, t.Graph4,
		t.Graph5, t.Graph6, t.Graph7, t.Graph8,
	}
}

// CatppuccinMocha is the default theme.
func CatppuccinMocha() Theme {
	return Theme{
		Background:        lipgloss.Color("#1e1e2e"),
		BackgroundPanel:   lipgloss.Color("#181825"),
		BackgroundElement: lipgloss.Color("#11111b"),

		Foreground:    lipgloss.Color("#cdd6f4"),
		Subtext:       lipgloss.Color("#a6adc8"),
		Border:        lipgloss.Color("#313244"),
		Selection:     lipgloss.Color("#45475a"),
		BranchMain:    lipgloss.Color("#a6e3a1"),
		BranchFeature: lipgloss.Color("#89b4fa"),
		BranchHotfix:  lipgloss.Color("#f38ba8"),
		Tag:           lipgloss.Color("#f9e2af"),
		Head:          lipgloss.Color("#cba6f7"),
		CommitHash:    lipgloss.Color("#fab387"),

		Graph1: lipgloss.Color("#89b4fa"),
		Graph2: lipgloss.Color("#cba6f7"),
		Graph3: lipgloss.Color("#94e2d5"),
		Graph4: lipgloss.Color("#f9e2af"),
		Graph5: lipgloss.Color("#a6e3a1"),
		Graph6: lipgloss.Color("#f38ba8"),
		Graph7: lipgloss.Color("#fab387"),
		Graph8: lipgloss.Color("#74c7ec"),
	}
}

// GetTheme resolves a theme by name, defaulting to CatppuccinMocha.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha()
	default:
		return CatppuccinMocha()
	}
}

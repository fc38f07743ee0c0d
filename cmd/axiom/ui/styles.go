// Package ui is the AXIOM terminal storefront.
// The palette is obsidian and bone with a single chrome accent, light and dark.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors
	LightBackground = lipgloss.Color("#f5f5f0") // bone
	LightForeground = lipgloss.Color("#0a0a0a")
	LightPrimary    = lipgloss.Color("#0a0a0a")
	LightAccent     = lipgloss.Color("#8a8a8a") // brushed chrome
	LightMuted      = lipgloss.Color("#737373")
	LightBorder     = lipgloss.Color("#d4d4d4")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors (Default)
	DarkBackground = lipgloss.Color("#050505") // obsidian
	DarkForeground = lipgloss.Color("#e5e5e5")
	DarkPrimary    = lipgloss.Color("#ffffff")
	DarkAccent     = lipgloss.Color("#c0c0c0")
	DarkMuted      = lipgloss.Color("#737373")
	DarkBorder     = lipgloss.Color("#262626")
	DarkCard       = lipgloss.Color("#0a0a0a")

	// Semantic Colors (same in both modes)
	Success = lipgloss.Color("#10b981") // emerald, the scan and manifest confirmations
	Info    = lipgloss.Color("#a3a3a3")
	Warning = lipgloss.Color("#d4af37")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme resolves "dark", "light" or "auto". Auto reads COLORFGBG and
// AXIOM_LIGHT_MODE and otherwise stays dark, the house look.
func DetectTheme(pref string) Theme {
	switch pref {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}

	if os.Getenv("AXIOM_LIGHT_MODE") == "1" {
		return LightTheme()
	}

	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			// 7 and 9-15 are the light ANSI backgrounds
			if bgIdx == 7 || (bgIdx >= 9 && bgIdx <= 15) {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style
	Panel  lipgloss.Style
	Modal  lipgloss.Style

	// Text
	Brand    lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Label    lipgloss.Style
	Price    lipgloss.Style

	// Navigation
	NavItem   lipgloss.Style
	NavActive lipgloss.Style
	Selected  lipgloss.Style

	// Status
	Success lipgloss.Style
	Info    lipgloss.Style
	Member  lipgloss.Style

	// Curator
	UserLine  lipgloss.Style
	ModelLine lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border).
			Padding(0, 2),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 4).
			Align(lipgloss.Center),

		Brand: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Bold(true),

		Price: lipgloss.NewStyle().
			Foreground(theme.Primary),

		NavItem: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		NavActive: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Underline(true).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Member: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		UserLine: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Align(lipgloss.Right),

		ModelLine: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Border).
			PaddingLeft(1),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme("auto"))
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The calendar must stay readable on light and dark terminals, so colours are
// adaptive and "faint" is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(r *lipgloss.Renderer, st lipgloss.Style) lipgloss.Style {
	if r.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// Palette is the set of colours a profile assigns to calendar cells.
type Palette struct {
	Muted      lipgloss.TerminalColor
	Chrome     lipgloss.TerminalColor
	Accent     lipgloss.TerminalColor
	AccentFg   lipgloss.TerminalColor
	FocusBg    lipgloss.TerminalColor
	FocusFg    lipgloss.TerminalColor
	Today      lipgloss.TerminalColor
	FlashError lipgloss.TerminalColor

	// ReverseFocus marks the focused cell with reverse video instead of FocusBg.
	ReverseFocus bool
}

var (
	defaultPalette = Palette{
		Muted:      ac("240", "243"),
		Chrome:     ac("240", "245"),
		Accent:     ac("27", "62"),
		AccentFg:   ac("255", "235"),
		FocusBg:    ac("#e9e9e9", "#262626"),
		FocusFg:    ac("235", "255"),
		Today:      ac("130", "214"),
		FlashError: ac("160", "203"),
	}

	// Mono keeps only attributes (bold, reverse, underline).
	monoPalette = Palette{
		Muted:      lipgloss.NoColor{},
		Chrome:     lipgloss.NoColor{},
		Accent:     lipgloss.NoColor{},
		AccentFg:   lipgloss.NoColor{},
		FocusBg:    lipgloss.NoColor{},
		FocusFg:    lipgloss.NoColor{},
		Today:      lipgloss.NoColor{},
		FlashError: lipgloss.NoColor{},

		ReverseFocus: true,
	}
)

// Profiles lists the known appearance profile ids.
var Profiles = []string{"default", "mono"}

// PaletteFor returns the palette of a profile id; unknown ids get the default.
func PaletteFor(profile string) Palette {
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case "mono":
		return monoPalette
	default:
		return defaultPalette
	}
}

// cellStyles are the per-flag styles, derived once per renderer.
type cellStyles struct {
	base     lipgloss.Style
	header   lipgloss.Style
	weekday  lipgloss.Style
	outside  lipgloss.Style
	inactive lipgloss.Style
	today    lipgloss.Style
	selected lipgloss.Style
	focus    lipgloss.Style
	footer   lipgloss.Style
	flash    lipgloss.Style
}

func newCellStyles(r *lipgloss.Renderer, p Palette) cellStyles {
	return cellStyles{
		base:     r.NewStyle(),
		header:   r.NewStyle().Bold(true),
		weekday:  r.NewStyle().Foreground(p.Chrome),
		outside:  faintIfDark(r, r.NewStyle().Foreground(p.Muted)),
		inactive: faintIfDark(r, r.NewStyle().Foreground(p.Muted)).Strikethrough(true),
		today:    r.NewStyle().Foreground(p.Today).Underline(true),
		selected: r.NewStyle().Bold(true).Foreground(p.AccentFg).Background(p.Accent),
		focus:    r.NewStyle().Bold(true).Foreground(p.FocusFg).Background(p.FocusBg).Reverse(p.ReverseFocus),
		footer:   faintIfDark(r, r.NewStyle().Foreground(p.Chrome)),
		flash:    r.NewStyle().Bold(true).Foreground(p.FlashError),
	}
}

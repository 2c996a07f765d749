package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background instead of a down-converted approximation.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme bundles the pre-computed styles used when rendering a frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed row styles, created once instead of per frame
	Glyph       lipgloss.Style // disclosure triangle
	Match       lipgloss.Style // matched name characters
	Flash       lipgloss.Style // freshly appeared row
	Placeholder lipgloss.Style
	More        lipgloss.Style
	Description lipgloss.Style // secondary lines of tall rows
	MutedText   lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,
		Primary:  ColorPrimary,
		Subtext:  ColorSubtext,
		Border:   lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Muted:    ColorMuted,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(ColorBgHighlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Glyph = r.NewStyle().Foreground(ColorMuted)
	t.Match = r.NewStyle().Foreground(ColorMatch).Bold(true).Underline(true)
	t.Flash = r.NewStyle().Background(ColorFlashBg)
	t.Placeholder = r.NewStyle().Foreground(ColorKindPlaceholder).Italic(true)
	t.More = r.NewStyle().Foreground(ColorKindMore).Italic(true)
	t.Description = r.NewStyle().Foreground(ColorSubtext)
	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.Status = r.NewStyle().Foreground(ColorInfo)
	t.StatusError = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.HelpKey = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.HelpDesc = r.NewStyle().Foreground(ColorMuted)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}

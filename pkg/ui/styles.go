package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// IndentWidth is the number of cells each tree level is shifted right.
const IndentWidth = 2

// SplitViewThreshold is the terminal width from which the detail pane is
// shown next to the tree.
const SplitViewThreshold = 100

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	// Primary accent colors
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Kind colors
	ColorKindFolder      = lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"} // Blue
	ColorKindGroup       = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"} // Purple
	ColorKindRoot        = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"} // Cyan
	ColorKindLeaf        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorKindPlaceholder = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#44475A"} // Muted gray
	ColorKindMore        = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"} // Orange

	// Flash is the background of a row highlighted after it appeared
	ColorFlashBg = lipgloss.AdaptiveColor{Light: "#FFF3CD", Dark: "#3D3D1A"}
	// Match is the foreground of matched name characters
	ColorMatch = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#F1FA8C"}
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// ══════════════════════════════════════════════════════════════════════════════
// KIND GLYPHS
// ══════════════════════════════════════════════════════════════════════════════

// Disclosure glyphs for rows that can hold children.
const (
	GlyphOpen      = "▾"
	GlyphClosed    = "▸"
	GlyphEmpty     = "▹"
	GlyphLeaf      = " "
	GlyphSelected  = "▌"
	GlyphMore      = "…"
	GlyphTruncated = "…"
)

// KindColor returns the foreground color used for an item of kind k.
func KindColor(k model.Kind) lipgloss.AdaptiveColor {
	switch k {
	case model.KindFolder:
		return ColorKindFolder
	case model.KindGroup:
		return ColorKindGroup
	case model.KindRoot:
		return ColorKindRoot
	case model.KindPlaceholder:
		return ColorKindPlaceholder
	case model.KindMoreResults:
		return ColorKindMore
	default:
		return ColorKindLeaf
	}
}

// RenderKindBadge renders a short, colored kind label for the detail pane.
func RenderKindBadge(k model.Kind) string {
	return lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(KindColor(k)).
		Bold(true).
		Padding(0, 1).
		Render(k.String())
}

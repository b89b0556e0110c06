// Package ui renders operator-facing output for the setup tool: colored,
// glyph-prefixed status lines, the confirmation summary and the closing
// next-steps document.
package ui

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors
var (
	Destructive = lipgloss.Color("#e53935") // Red
	Success     = lipgloss.Color("#8BC34A") // Lime Green
	Warning     = lipgloss.Color("#FFC107") // Yellow
	Info        = lipgloss.Color("#2196F3") // Blue
	Muted       = lipgloss.Color("#8a94a6")
)

// Glyphs prefixed to status lines.
const (
	GlyphInfo    = "ℹ"
	GlyphSuccess = "✓"
	GlyphWarning = "⚠"
	GlyphError   = "✗"
	GlyphStep    = "→"
)

// Styles holds the styled components, bound to one output renderer so that
// color is dropped when that output is not a terminal.
type Styles struct {
	Title   lipgloss.Style
	Step    lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// NewStyles creates styles rendered for w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	if darkPreferred() {
		r.SetHasDarkBackground(true)
	}

	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}),
		Step: r.NewStyle().
			Bold(true).
			Foreground(Info),
		Label: r.NewStyle().
			Foreground(Muted),
		Value: r.NewStyle().
			Bold(true),
		Muted: r.NewStyle().
			Foreground(Muted),
		Success: r.NewStyle().Foreground(Success),
		Error:   r.NewStyle().Foreground(Destructive).Bold(true),
		Warning: r.NewStyle().Foreground(Warning),
		Info:    r.NewStyle().Foreground(Info),
	}
}

// darkPreferred reports an explicit dark background hint from COLORFGBG or
// SETUP_DARK_MODE.
func darkPreferred() bool {
	if os.Getenv("SETUP_DARK_MODE") == "1" {
		return true
	}
	// Format is usually "foreground;background"
	parts := strings.Split(os.Getenv("COLORFGBG"), ";")
	if len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil {
			return (bg >= 0 && bg <= 6) || bg == 8
		}
	}
	return false
}

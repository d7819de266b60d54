package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints bar segments on one background. lipgloss resets the
// background after every styled run, so gaps between words and segments
// are painted explicitly.
type BgStyle struct {
	fill lipgloss.Style
}

// NewBgStyle returns a painter for the bar color bgColor.
func NewBgStyle(bgColor string) BgStyle {
	return BgStyle{fill: lipgloss.NewStyle().Background(lipgloss.Color(bgColor))}
}

// Render styles text word by word on the bar color.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.fill.GetBackground())
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.Sep(" "))
}

// Spaces returns n painted spaces.
func (b BgStyle) Spaces(n int) string {
	return b.Sep(strings.Repeat(" ", n))
}

// Sep paints a separator.
func (b BgStyle) Sep(sep string) string {
	return b.fill.Render(sep)
}

// Join joins parts with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

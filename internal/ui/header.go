package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pantry/internal/state"
)

// renderHeader renders the title bar with the view tabs.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("pantry", styles.Logo)}

	tabs := []struct {
		key  string
		view View
	}{
		{"1", ViewBrowse},
		{"2", ViewSearch},
		{"3", ViewFavorites},
	}
	active := m.currentView
	if active == ViewDetail {
		active = m.returnView
	}
	for _, tab := range tabs {
		label := tab.key + " " + tab.view.String()
		style := styles.MutedText
		if tab.view == active {
			style = styles.AccentText.Bold(true)
		}
		parts = append(parts, bg.Render(label, style))
	}

	if m.currentView == ViewDetail {
		parts = append(parts, bg.Render("› Recipe", styles.AccentText))
	}

	if m.busy() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.WarningText))
	}

	content := bg.Join(parts, "  ")
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// busy reports whether any request is in flight.
func (m Model) busy() bool {
	return m.browser.Meals.Snapshot().Status == state.Loading ||
		m.details.Meal.Snapshot().Status == state.Loading ||
		m.favorite.Flag.Snapshot().Status == state.Loading ||
		m.favorites.Items.Snapshot().Status == state.Loading ||
		m.favorites.Removal.Snapshot().Status == state.Loading
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewSearch:
		commands = []cmd{
			{"↑/↓", "Navigate"},
			{"Enter", "Open"},
			{"Esc", "Browse"},
			{"Tab", "Next view"},
		}
	case ViewDetail:
		commands = []cmd{
			{"f", "Favorite"},
			{"j/k", "Scroll"},
			{"r", "Retry"},
			{"x", "Dismiss"},
			{"Esc", "Back"},
			{"?", "More"},
		}
	case ViewFavorites:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"Enter", "Open"},
			{"d", "Remove"},
			{"r", "Refresh"},
			{"?", "More"},
		}
	default: // ViewBrowse
		commands = []cmd{
			{"h/l", "Letter"},
			{"c", "Category"},
			{"a", "Area"},
			{"x", "Letters"},
			{"j/k", "Navigate"},
			{"Enter", "Open"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Theme indicator; the search box takes T as text.
	if m.currentView != ViewSearch {
		segments = append(segments,
			bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine shows settings errors, which have no view of their own.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if m.settings == nil {
		return ""
	}
	if snap := m.settings.Theme.Snapshot(); snap.Status == state.Failed {
		return styles.DangerText.Render(truncate(snap.Err, m.width))
	}
	return ""
}

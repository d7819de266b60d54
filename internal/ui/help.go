package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	// Help content
	sections := []helpSection{
		{
			title: "Views",
			items: []helpItem{
				{"1/2/3", "Browse/Search/Favorites"},
				{"/", "Search"},
				{"tab", "Cycle views"},
				{"esc", "Back"},
			},
		},
		{
			title: "Lists",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"ctrl+d/u", "Half page down/up"},
				{"enter", "Open recipe"},
				{"r", "Retry / refresh"},
			},
		},
		{
			title: "Browse",
			items: []helpItem{
				{"h/l", "Previous/next letter"},
				{"c", "Cycle category"},
				{"a", "Cycle area"},
				{"x", "Back to letters"},
			},
		},
		{
			title: "Recipes",
			items: []helpItem{
				{"f", "Toggle favorite"},
				{"d", "Remove favorite"},
				{"x", "Dismiss error"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Light/dark theme"},
				{"?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	keyWidth := 0
	for _, section := range sections {
		for _, item := range section.items {
			keyWidth = max(keyWidth, lipgloss.Width(item.key))
		}
	}
	keyStyle := styles.WarningText.Width(keyWidth + 2)

	// Two columns when the terminal is wide enough.
	blocks := make([]string, len(sections))
	for i, section := range sections {
		lines := []string{styles.AccentText.Bold(true).Render(section.title)}
		for _, item := range section.items {
			lines = append(lines, keyStyle.Render(item.key)+styles.Text.Render(item.desc))
		}
		blocks[i] = strings.Join(lines, "\n")
	}

	var body string
	if m.width >= LayoutCompactWidth {
		half := (len(blocks) + 1) / 2
		left := lipgloss.JoinVertical(lipgloss.Left, interleave(blocks[:half], "")...)
		right := lipgloss.JoinVertical(lipgloss.Left, interleave(blocks[half:], "")...)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, interleave(blocks, "")...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.Text.Bold(true).Render("Keyboard Shortcuts"),
		styles.FaintText.Render(strings.Repeat("─", lipgloss.Width(body))),
		"",
		body,
		"",
		styles.FaintText.Render("Press any key to close"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// interleave puts sep between consecutive values.
func interleave(values []string, sep string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values)*2-1)
	for i, v := range values {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, v)
	}
	return out
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pantry/internal/mealdb"
)

// listRow is one line of a selectable list.
type listRow struct {
	title string
	meta  string
}

func summaryRows(meals []mealdb.Summary) []listRow {
	rows := make([]listRow, len(meals))
	for i, meal := range meals {
		rows[i] = listRow{title: meal.Name, meta: joinNonEmpty(" · ", meal.Category, meal.Area)}
	}
	return rows
}

// renderBox frames content in the bordered content area with a title.
func (m Model) renderBox(title string, lines []string) string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	body := make([]string, 0, height)
	body = append(body, styles.AccentText.Bold(true).Render(title))
	body = append(body, lines...)
	if len(body) > height {
		body = body[:height]
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 1).
		Width(m.width - 2).
		Height(height).
		Render(strings.Join(body, "\n"))
}

// renderList renders rows with the selected one highlighted, scrolled to fit
// height lines.
func (m Model) renderList(rows []listRow, selected, height int) []string {
	styles := m.theme.Styles()
	width := m.contentWidth()
	showMeta := m.width >= LayoutMetaWidth

	start, end := visibleWindow(selected, len(rows), height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := rows[i]
		title := truncate(row.title, width)
		meta := ""
		if showMeta && row.meta != "" {
			room := width - lipgloss.Width(title) - 2
			if room > 3 {
				meta = truncate(row.meta, room)
			}
		}

		if i == selected {
			text := title
			if meta != "" {
				text += "  " + meta
			}
			lines = append(lines, styles.Selected.Width(width).Render(text))
			continue
		}
		line := styles.Text.Render(title)
		if meta != "" {
			line += "  " + styles.FaintText.Render(meta)
		}
		lines = append(lines, line)
	}
	return lines
}

// renderMessage renders a single centered-ish hint inside the content box.
func (m Model) renderMessage(style lipgloss.Style, text string) []string {
	return []string{"", style.Render(text)}
}

// renderError renders a failure banner with the retry hint.
func (m Model) renderError(msg string) string {
	styles := m.theme.Styles()
	return styles.DangerText.Render(msg) + "  " + styles.FaintText.Render(fmt.Sprintf("%s to retry", m.keys.Retry.Help().Key))
}

package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchState holds the search box and its debounce bookkeeping. seq
// increases on every edit; a debounce tick carrying an older seq is stale.
type searchState struct {
	input    textinput.Model
	seq      uint64
	selected int
	debounce time.Duration
	minLen   int
}

type searchDebounceMsg struct {
	seq   uint64
	query string
}

// enterSearch starts a fresh search and clears the shared meal list.
func (m *Model) enterSearch() tea.Cmd {
	m.search.seq++
	m.search.selected = 0
	m.search.input.SetValue("")
	m.browser.Clear()
	return m.search.input.Focus()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	meals := m.browser.Meals.Snapshot().Payload

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		cmd := m.switchView(ViewBrowse)
		return m, cmd
	case "tab":
		cmd := m.switchView(m.nextTab(1))
		return m, cmd
	case "shift+tab":
		cmd := m.switchView(m.nextTab(-1))
		return m, cmd
	case "up", "ctrl+p":
		m.search.selected = clampIndex(m.search.selected-1, len(meals))
		return m, nil
	case "down", "ctrl+n":
		m.search.selected = clampIndex(m.search.selected+1, len(meals))
		return m, nil
	case "enter":
		if m.searchReady() && m.search.selected < len(meals) {
			cmd := m.openDetail(meals[m.search.selected].ID)
			return m, cmd
		}
		return m, nil
	}

	before := m.search.input.Value()
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	if m.search.input.Value() == before {
		return m, cmd
	}
	search := m.scheduleSearch()
	return m, tea.Batch(cmd, search)
}

// scheduleSearch starts the debounce for the current input. An empty query
// clears the results right away.
func (m *Model) scheduleSearch() tea.Cmd {
	m.search.seq++
	m.search.selected = 0
	seq := m.search.seq
	query := m.searchQuery()

	if query == "" {
		m.browser.Clear()
		return nil
	}
	return tea.Tick(m.search.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, query: query}
	})
}

// handleSearchDebounce sends the query once typing has paused, unless a
// newer edit superseded it or it is too short.
func (m Model) handleSearchDebounce(msg searchDebounceMsg) tea.Cmd {
	if msg.seq != m.search.seq || m.currentView != ViewSearch {
		return nil
	}
	if utf8.RuneCountInString(msg.query) < m.search.minLen {
		return nil
	}
	browser, ctx := m.browser, m.ctx
	return func() tea.Msg {
		_, err := browser.ByName(ctx, msg.query)
		return opDoneMsg{op: "search", err: err}
	}
}

func (m Model) searchQuery() string {
	return strings.TrimSpace(m.search.input.Value())
}

// searchReady reports whether the query is long enough to show results.
func (m Model) searchReady() bool {
	return utf8.RuneCountInString(m.searchQuery()) >= m.search.minLen
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	query := m.searchQuery()

	lines := []string{m.search.input.View(), ""}
	height := m.contentHeight() - len(lines) - 1

	switch {
	case query == "":
		lines = append(lines, m.renderMessage(styles.MutedText, "Start typing to search recipes")...)
	case !m.searchReady():
		lines = append(lines, m.renderMessage(styles.MutedText,
			fmt.Sprintf("Type at least %d characters", m.search.minLen))...)
	default:
		lines = append(lines, m.mealLines(m.browser.Meals.Snapshot(), m.search.selected, height,
			fmt.Sprintf("No results found for %q", query), "Searching...")...)
	}
	return m.renderBox("Search", lines)
}

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pantry/internal/mealdb"
	"github.com/five82/pantry/internal/recipes"
	"github.com/five82/pantry/internal/state"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// browseState tracks which filter the browse view shows. category and area
// index into the loaded filter lists and are -1 when unused; letter filtering
// applies when both are -1.
type browseState struct {
	letter   int
	category int
	area     int
	selected int
}

// browseQuery returns the lookup the browse view currently shows.
func (m Model) browseQuery() recipes.Query {
	if m.browse.category >= 0 {
		cats := m.browser.Categories.Snapshot().Payload
		if m.browse.category < len(cats) {
			return recipes.Query{Kind: recipes.ByCategory, Value: cats[m.browse.category]}
		}
	}
	if m.browse.area >= 0 {
		areas := m.browser.Areas.Snapshot().Payload
		if m.browse.area < len(areas) {
			return recipes.Query{Kind: recipes.ByArea, Value: areas[m.browse.area]}
		}
	}
	letter := string(alphabet[m.browse.letter%len(alphabet)])
	return recipes.Query{Kind: recipes.ByFirstLetter, Value: strings.ToLower(letter)}
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	meals := m.browser.Meals.Snapshot().Payload

	switch {
	case key.Matches(msg, m.keys.Up):
		m.browse.selected = clampIndex(m.browse.selected-1, len(meals))
	case key.Matches(msg, m.keys.Down):
		m.browse.selected = clampIndex(m.browse.selected+1, len(meals))
	case key.Matches(msg, m.keys.Top):
		m.browse.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.browse.selected = clampIndex(len(meals)-1, len(meals))
	case key.Matches(msg, m.keys.HalfPageUp):
		m.browse.selected = clampIndex(m.browse.selected-m.contentHeight()/2, len(meals))
	case key.Matches(msg, m.keys.HalfPageDown):
		m.browse.selected = clampIndex(m.browse.selected+m.contentHeight()/2, len(meals))

	case key.Matches(msg, m.keys.Open):
		if m.browse.selected < len(meals) {
			cmd := m.openDetail(meals[m.browse.selected].ID)
			return m, cmd
		}

	case key.Matches(msg, m.keys.PrevLetter):
		m.browse.letter = (m.browse.letter + len(alphabet) - 1) % len(alphabet)
		cmd := m.refilter(-1, -1)
		return m, cmd
	case key.Matches(msg, m.keys.NextLetter):
		m.browse.letter = (m.browse.letter + 1) % len(alphabet)
		cmd := m.refilter(-1, -1)
		return m, cmd

	case key.Matches(msg, m.keys.CycleCategory):
		next := cycleFilter(m.browse.category, len(m.browser.Categories.Snapshot().Payload))
		cmd := m.refilter(next, -1)
		return m, cmd
	case key.Matches(msg, m.keys.CycleArea):
		next := cycleFilter(m.browse.area, len(m.browser.Areas.Snapshot().Payload))
		cmd := m.refilter(-1, next)
		return m, cmd
	case key.Matches(msg, m.keys.ClearFilter):
		cmd := m.refilter(-1, -1)
		return m, cmd

	case key.Matches(msg, m.keys.Retry):
		return m, m.retryBrowseCmd()
	}
	return m, nil
}

// cycleFilter advances through n filter values and wraps back to -1.
func cycleFilter(current, n int) int {
	if n == 0 {
		return -1
	}
	next := current + 1
	if next >= n {
		return -1
	}
	return next
}

// refilter applies a new category/area selection and reloads the list.
func (m *Model) refilter(category, area int) tea.Cmd {
	m.browse.category = category
	m.browse.area = area
	m.browse.selected = 0
	return m.fetchBrowseCmd()
}

func (m Model) fetchBrowseCmd() tea.Cmd {
	browser, ctx, q := m.browser, m.ctx, m.browseQuery()
	return func() tea.Msg {
		_, err := browser.Fetch(ctx, q)
		return opDoneMsg{op: "browse " + q.Kind.String(), err: err}
	}
}

// retryBrowseCmd reloads the meal list and any filter list that failed.
func (m Model) retryBrowseCmd() tea.Cmd {
	cmds := []tea.Cmd{m.fetchBrowseCmd()}
	if m.browser.Categories.Snapshot().Status == state.Failed ||
		m.browser.Areas.Snapshot().Status == state.Failed {
		cmds = append(cmds, m.loadFiltersCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) loadFiltersCmd() tea.Cmd {
	browser, ctx := m.browser, m.ctx
	return tea.Batch(
		func() tea.Msg {
			_, err := browser.LoadCategories(ctx)
			return opDoneMsg{op: "load categories", err: err}
		},
		func() tea.Msg {
			_, err := browser.LoadAreas(ctx)
			return opDoneMsg{op: "load areas", err: err}
		},
	)
}

func (m Model) browseTitle() string {
	q := m.browseQuery()
	switch q.Kind {
	case recipes.ByCategory:
		return "Category: " + q.Value
	case recipes.ByArea:
		return "Area: " + q.Value
	default:
		return "Meals starting with " + strings.ToUpper(q.Value)
	}
}

func (m Model) renderBrowse() string {
	styles := m.theme.Styles()

	letters := make([]string, len(alphabet))
	for i := range alphabet {
		l := string(alphabet[i])
		if i == m.browse.letter && m.browse.category < 0 && m.browse.area < 0 {
			letters[i] = styles.AccentText.Bold(true).Render(l)
		} else {
			letters[i] = styles.FaintText.Render(l)
		}
	}

	lines := []string{strings.Join(letters, " "), ""}
	lines = append(lines, m.mealLines(m.browser.Meals.Snapshot(), m.browse.selected,
		m.contentHeight()-len(lines)-1, "No meals found", "Loading meals...")...)
	return m.renderBox(m.browseTitle(), lines)
}

// mealLines renders a meal list machine in any of its states. A failure with
// a previous payload keeps the stale rows under the error.
func (m Model) mealLines(snap state.Request[[]mealdb.Summary], selected, height int, empty, loading string) []string {
	styles := m.theme.Styles()
	list := func() []string {
		if len(snap.Payload) == 0 {
			return nil
		}
		return m.renderList(summaryRows(snap.Payload), selected, height)
	}

	return state.Match(snap,
		func() []string { return nil },
		func() []string {
			if snap.HasPayload && len(snap.Payload) > 0 {
				return list()
			}
			return m.renderMessage(styles.MutedText, m.spinner.View()+" "+loading)
		},
		func(meals []mealdb.Summary) []string {
			if len(meals) == 0 {
				return m.renderMessage(styles.MutedText, empty)
			}
			return list()
		},
		func(msg string) []string {
			lines := []string{m.renderError(msg)}
			if snap.HasPayload {
				lines = append(lines, list()...)
			}
			return lines
		},
	)
}

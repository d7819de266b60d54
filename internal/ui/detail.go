package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pantry/internal/favorites"
	"github.com/five82/pantry/internal/mealdb"
	"github.com/five82/pantry/internal/state"
)

type detailState struct {
	viewport viewport.Model
}

func (m *Model) initDetailViewport() {
	m.detail.viewport = viewport.New(m.contentWidth(), m.contentHeight()-1)
}

// updateDetailViewport re-renders the recipe into the viewport.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	m.detail.viewport.Width = m.contentWidth()
	m.detail.viewport.Height = max(m.contentHeight()-1, 1)
	m.detail.viewport.SetContent(m.detailContent())
}

// openDetail shows the recipe id on top of the current view.
func (m *Model) openDetail(id string) tea.Cmd {
	if m.currentView != ViewDetail {
		m.returnView = m.currentView
	}
	if m.currentView == ViewSearch {
		m.search.input.Blur()
	}
	m.currentView = ViewDetail
	m.detail.viewport.GotoTop()
	m.updateDetailViewport()

	details, favorite, ctx := m.details, m.favorite, m.ctx
	return tea.Batch(
		func() tea.Msg {
			_, err := details.Load(ctx, id)
			return opDoneMsg{op: "load meal", err: err}
		},
		func() tea.Msg {
			_, err := favorite.CheckIsFavorite(ctx, id)
			return opDoneMsg{op: "check favorite", err: err}
		},
	)
}

// closeDetail drops the detail state and returns to the view underneath.
func (m *Model) closeDetail() {
	m.details.Clear()
	m.favorite.Reset()
	m.currentView = m.returnView
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeDetail()
		cmd := m.resumeView()
		return m, cmd

	case key.Matches(msg, m.keys.ToggleFavorite):
		return m, m.toggleFavoriteCmd()

	case key.Matches(msg, m.keys.Retry):
		return m, m.retryDetailCmd()

	case key.Matches(msg, m.keys.Dismiss):
		m.dismissDetailErrors()

	case key.Matches(msg, m.keys.Up):
		m.detail.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.detail.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Top):
		m.detail.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detail.viewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detail.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detail.viewport.HalfPageDown()
	}
	return m, nil
}

// toggleFavoriteCmd flips the favorite flag of the loaded recipe. It does
// nothing before the recipe arrives or while a toggle is in flight.
func (m Model) toggleFavoriteCmd() tea.Cmd {
	snap := m.details.Meal.Snapshot()
	if !snap.HasPayload || snap.Payload == nil {
		return nil
	}
	if m.favorite.Flag.Snapshot().Status == state.Loading {
		return nil
	}

	meal := favorites.SnapshotOf(snap.Payload.Summary)
	favorite, ctx := m.favorite, m.ctx
	return func() tea.Msg {
		_, err := favorite.Toggle(ctx, meal.ID, meal)
		return opDoneMsg{op: "toggle favorite", err: err}
	}
}

func (m Model) retryDetailCmd() tea.Cmd {
	id := m.details.ID()
	if id == "" {
		return nil
	}
	var cmds []tea.Cmd
	if m.details.Meal.Snapshot().Status == state.Failed {
		details, ctx := m.details, m.ctx
		cmds = append(cmds, func() tea.Msg {
			_, err := details.Retry(ctx)
			return opDoneMsg{op: "retry meal", err: err}
		})
	}
	if m.favorite.Flag.Snapshot().Status == state.Failed {
		favorite, ctx := m.favorite, m.ctx
		cmds = append(cmds, func() tea.Msg {
			_, err := favorite.CheckIsFavorite(ctx, id)
			return opDoneMsg{op: "check favorite", err: err}
		})
	}
	return tea.Batch(cmds...)
}

// dismissDetailErrors hides the error messages of the recipe and its flag.
// The views fall back to the last loaded values.
func (m Model) dismissDetailErrors() {
	if m.details.Meal.Snapshot().Status == state.Failed {
		m.details.ResetError()
	}
	if m.favorite.Flag.Snapshot().Status == state.Failed {
		m.favorite.Flag.ResetError()
	}
}

func (m Model) renderDetail() string {
	title := "Recipe"
	if snap := m.details.Meal.Snapshot(); snap.HasPayload && snap.Payload != nil {
		title = snap.Payload.Name
	}
	return m.renderBox(title, []string{m.detail.viewport.View()})
}

// detailContent renders the recipe body for the viewport.
func (m Model) detailContent() string {
	styles := m.theme.Styles()
	snap := m.details.Meal.Snapshot()

	return state.Match(snap,
		func() string { return "" },
		func() string {
			return styles.MutedText.Render(m.spinner.View() + " Loading recipe...")
		},
		func(meal *mealdb.Meal) string {
			if meal == nil {
				return ""
			}
			return m.renderMeal(meal)
		},
		func(msg string) string {
			var parts []string
			if msg != "" {
				parts = append(parts, m.renderError(msg))
			}
			if snap.HasPayload && snap.Payload != nil {
				parts = append(parts, m.renderMeal(snap.Payload))
			}
			return strings.Join(parts, "\n\n")
		},
	)
}

func (m Model) renderMeal(meal *mealdb.Meal) string {
	styles := m.theme.Styles()
	width := min(m.contentWidth(), DetailMaxWidth)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder

	if meta := joinNonEmpty(" · ", meal.Category, meal.Area); meta != "" {
		b.WriteString(styles.MutedText.Render(meta))
		b.WriteString("  ")
	}
	b.WriteString(m.renderFavoriteFlag())
	b.WriteString("\n")
	if len(meal.Tags) > 0 {
		b.WriteString(styles.FaintText.Render("Tags: " + strings.Join(meal.Tags, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Ingredients"))
	b.WriteString("\n")
	measureWidth := 0
	for _, ing := range meal.Ingredients {
		measureWidth = max(measureWidth, lipgloss.Width(ing.Measure))
	}
	for _, ing := range meal.Ingredients {
		measure := lipgloss.NewStyle().Width(measureWidth).Render(ing.Measure)
		b.WriteString("  • ")
		b.WriteString(styles.WarningText.Render(measure))
		b.WriteString("  ")
		b.WriteString(styles.Text.Render(ing.Name))
		b.WriteString("\n")
	}

	steps := meal.Steps()
	if len(steps) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Instructions"))
		b.WriteString("\n")
		for _, step := range steps {
			b.WriteString(wrap.Render(fmt.Sprintf("%2d. %s", step.Index, step.Text)))
			b.WriteString("\n")
		}
	}

	if meal.YouTube != "" || meal.Source != "" {
		b.WriteString("\n")
	}
	if meal.YouTube != "" {
		b.WriteString(styles.FaintText.Render("Video  ") + styles.MutedText.Render(meal.YouTube) + "\n")
	}
	if meal.Source != "" {
		b.WriteString(styles.FaintText.Render("Source ") + styles.MutedText.Render(meal.Source) + "\n")
	}

	return b.String()
}

// renderFavoriteFlag shows the favorite machine. A failure keeps the last
// known value next to the error.
func (m Model) renderFavoriteFlag() string {
	styles := m.theme.Styles()
	snap := m.favorite.Flag.Snapshot()
	flag := func(on bool) string {
		if on {
			return styles.DangerText.Render("♥ Favorite")
		}
		return styles.FaintText.Render("♡ Not a favorite")
	}

	return state.Match(snap,
		func() string { return "" },
		func() string { return styles.MutedText.Render(m.spinner.View() + " Updating") },
		flag,
		func(msg string) string {
			var parts []string
			if snap.HasPayload {
				parts = append(parts, flag(snap.Payload))
			}
			if msg != "" {
				parts = append(parts, styles.DangerText.Render(msg))
			}
			return strings.Join(parts, "  ")
		},
	)
}

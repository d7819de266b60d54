package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pantry/internal/favorites"
	"github.com/five82/pantry/internal/state"
)

type favoritesState struct {
	selected int
}

func favoriteRows(records []favorites.Record) []listRow {
	rows := make([]listRow, len(records))
	for i, rec := range records {
		name := rec.Meal.Name
		if name == "" {
			name = rec.MealID
		}
		rows[i] = listRow{title: name, meta: joinNonEmpty(" · ", rec.Meal.Category, rec.Meal.Area)}
	}
	return rows
}

func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	records := m.favorites.Items.Snapshot().Payload

	switch {
	case key.Matches(msg, m.keys.Escape):
		cmd := m.switchView(ViewBrowse)
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		m.favs.selected = clampIndex(m.favs.selected-1, len(records))
	case key.Matches(msg, m.keys.Down):
		m.favs.selected = clampIndex(m.favs.selected+1, len(records))
	case key.Matches(msg, m.keys.Top):
		m.favs.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.favs.selected = clampIndex(len(records)-1, len(records))

	case key.Matches(msg, m.keys.Open):
		if m.favs.selected < len(records) {
			cmd := m.openDetail(records[m.favs.selected].MealID)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Remove):
		if m.favs.selected < len(records) {
			return m, m.removeFavoriteCmd(records[m.favs.selected].MealID)
		}

	case key.Matches(msg, m.keys.Retry):
		list, ctx := m.favorites, m.ctx
		return m, func() tea.Msg {
			_, err := list.Refresh(ctx)
			return opDoneMsg{op: "refresh favorites", err: err}
		}
	}
	return m, nil
}

func (m Model) removeFavoriteCmd(mealID string) tea.Cmd {
	if m.favorites.Removal.Snapshot().Status == state.Loading {
		return nil
	}
	list, ctx := m.favorites, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: "remove favorite", err: list.Remove(ctx, mealID)}
	}
}

func (m Model) renderFavorites() string {
	styles := m.theme.Styles()
	snap := m.favorites.Items.Snapshot()
	height := m.contentHeight() - 2

	var lines []string
	if removal := m.favorites.Removal.Snapshot(); removal.Status == state.Failed {
		lines = append(lines, m.renderError(removal.Err))
	}

	list := func(records []favorites.Record) []string {
		if len(records) == 0 {
			return m.renderMessage(styles.MutedText, "No favorites yet. Press f on a recipe to add it.")
		}
		return m.renderList(favoriteRows(records), m.favs.selected, height)
	}

	lines = append(lines, state.Match(snap,
		func() []string { return nil },
		func() []string {
			if snap.HasPayload {
				return list(snap.Payload)
			}
			return m.renderMessage(styles.MutedText, m.spinner.View()+" Loading favorites...")
		},
		list,
		func(msg string) []string {
			out := []string{m.renderError(msg)}
			if snap.HasPayload {
				out = append(out, list(snap.Payload)...)
			}
			return out
		},
	)...)

	return m.renderBox("Favorites", lines)
}

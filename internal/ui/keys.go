package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	ToggleTheme key.Binding
	Tab         key.Binding
	ShiftTab    key.Binding
	Escape      key.Binding

	// View switching
	ViewBrowse    key.Binding
	ViewSearch    key.Binding
	ViewFavorites key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Open         key.Binding

	// Browse
	PrevLetter    key.Binding
	NextLetter    key.Binding
	CycleCategory key.Binding
	CycleArea     key.Binding
	ClearFilter   key.Binding

	// Actions
	Retry          key.Binding
	Dismiss        key.Binding
	ToggleFavorite key.Binding
	Remove         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Light/dark theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		// View switching
		ViewBrowse: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Browse"),
		),
		ViewSearch: key.NewBinding(
			key.WithKeys("2", "/"),
			key.WithHelp("2 or /", "Search"),
		),
		ViewFavorites: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Favorites"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open recipe"),
		),

		// Browse
		PrevLetter: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Previous letter"),
		),
		NextLetter: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Next letter"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cycle category"),
		),
		CycleArea: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Cycle area"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Back to letters"),
		),

		// Actions
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Retry / refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Dismiss error"),
		),
		ToggleFavorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle favorite"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Remove favorite"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewBrowse, k.ViewSearch, k.ViewFavorites, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom, k.Open},
		{k.HalfPageDown, k.HalfPageUp},
		{k.PrevLetter, k.NextLetter, k.CycleCategory, k.CycleArea, k.ClearFilter},
		{k.ToggleFavorite, k.Remove, k.Retry, k.Dismiss},
		{k.ToggleTheme, k.Help, k.Quit},
	}
}

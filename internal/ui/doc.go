// Package ui provides the terminal user interface for Pantry.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It owns no domain state: every list,
// recipe and flag it draws comes from a state machine in one of the feature
// packages (recipes, favorites, settings). Key presses start commands that
// call those packages; the machines notify the shared state.Store, and the
// model re-renders on the resulting storeChangedMsg.
//
// # Package Structure
//
//   - app.go: Model, Options, Update loop, view switching and Run
//   - browse.go: letter, category and area browsing
//   - search.go: debounced search by name
//   - detail.go: recipe viewport and the favorite toggle
//   - favorites.go: live favorites list
//   - header.go: title bar, command bar and status line
//   - help.go: keyboard shortcut overlay
//   - theme.go: light and dark palettes
//
// # View Types
//
//   - Browse: meals by first letter, category or area
//   - Search: meals by name, sent after typing pauses
//   - Recipe: one meal with ingredients and numbered steps, opened over the
//     view it was picked from
//   - Favorites: the favorites document, kept current by a subscription
//     that exists only while the view is shown
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Store:     store,
//		Browser:   browser,
//		Details:   details,
//		Favorite:  controller,
//		Favorites: list,
//		Settings:  settings,
//		Logger:    logger,
//	})
package ui

// Package app is the composition root for Pantry.
//
// Run loads the configuration, opens the logger and the two local stores,
// picks the favorites backend and builds the feature slices on one shared
// state.Store before handing them to the TUI:
//
//	config.Load()            TOML file, .env, environment
//	logging.New()            tint handler writing to the data directory
//	kvstore.Open()           identifier and theme
//	openDocstore()           CouchDB (retried with backoff) or local bbolt
//	mealdb.NewClient()       recipe API
//	recipes / favorites / settings slices
//	ui.Run()                 blocks until quit
//
// Configuration and startup failures are returned from Run. Failures after
// the UI starts land in the state machines and are shown, not returned.
package app

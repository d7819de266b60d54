// Package config loads pantry's configuration.
//
// # Overview
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. The TOML file, ~/.config/pantry/config.toml unless a path is given
//  3. Environment variables, read from the process and from a .env file in
//     the working directory (the process wins over the file)
//
// A missing config file or .env file is not an error. Empty values in any
// layer leave the previous value in place. The merged Config is validated
// before it is returned.
//
// # TOML Format
//
//	api_base_url = "https://www.themealdb.com/api/json/v1/1"
//	data_dir = "~/.local/share/pantry"
//	log_level = "info"
//	request_timeout = "10s"
//
//	[favorites]
//	backend = "couchdb"            # or "local"
//	couchdb_url = "http://127.0.0.1:5984"
//	couchdb_user = "admin"
//	couchdb_password = "secret"
//	couchdb_database = "pantry"
//
//	[search]
//	debounce = "500ms"
//	min_query_length = 3
//
// # Environment
//
//   - PANTRY_API_BASE_URL
//   - PANTRY_FAVORITES_BACKEND
//   - PANTRY_COUCHDB_URL, PANTRY_COUCHDB_USER, PANTRY_COUCHDB_PASSWORD,
//     PANTRY_COUCHDB_DATABASE
//   - PANTRY_LOG_LEVEL
//
// # Derived Paths
//
// Everything pantry writes lives under data_dir: pantry.log, state.db (the
// installation identifier and theme) and favorites.db (the local favorites
// backend). Tilde expansion is performed on the config path and data_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// parse errors (prefixed "parse config"), malformed durations and values that
// fail validation (prefixed "invalid config").
package config

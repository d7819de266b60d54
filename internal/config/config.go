package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is pantry's runtime configuration.
type Config struct {
	APIBaseURL     string        `validate:"required,url"`
	DataDir        string        `validate:"required"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
	RequestTimeout time.Duration `validate:"gt=0s"`
	Favorites      Favorites
	Search         Search
}

// Favorites selects where the favorites document lives.
type Favorites struct {
	Backend         string `validate:"oneof=couchdb local"`
	CouchDBURL      string `validate:"required,url"`
	CouchDBUser     string
	CouchDBPassword string
	CouchDBDatabase string `validate:"required"`
}

// Search tunes the search-as-you-type view.
type Search struct {
	Debounce       time.Duration `validate:"gte=0s"`
	MinQueryLength int           `validate:"min=1"`
}

const (
	BackendCouchDB = "couchdb"
	BackendLocal   = "local"
)

const (
	defaultConfigPath     = "~/.config/pantry/config.toml"
	defaultEnvFile        = ".env"
	defaultAPIBaseURL     = "https://www.themealdb.com/api/json/v1/1"
	defaultDataDir        = "~/.local/share/pantry"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 10 * time.Second
	defaultBackend        = BackendLocal
	defaultCouchDBURL     = "http://127.0.0.1:5984"
	defaultCouchDBName    = "pantry"
	defaultDebounce       = 500 * time.Millisecond
	defaultMinQueryLength = 3
)

// Environment variables override the file.
const (
	EnvAPIBaseURL       = "PANTRY_API_BASE_URL"
	EnvFavoritesBackend = "PANTRY_FAVORITES_BACKEND"
	EnvCouchDBURL       = "PANTRY_COUCHDB_URL"
	EnvCouchDBUser      = "PANTRY_COUCHDB_USER"
	EnvCouchDBPassword  = "PANTRY_COUCHDB_PASSWORD"
	EnvCouchDBDatabase  = "PANTRY_COUCHDB_DATABASE"
	EnvLogLevel         = "PANTRY_LOG_LEVEL"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		DataDir:        mustExpand(defaultDataDir),
		LogLevel:       defaultLogLevel,
		RequestTimeout: defaultRequestTimeout,
		Favorites: Favorites{
			Backend:         defaultBackend,
			CouchDBURL:      defaultCouchDBURL,
			CouchDBDatabase: defaultCouchDBName,
		},
		Search: Search{
			Debounce:       defaultDebounce,
			MinQueryLength: defaultMinQueryLength,
		},
	}
}

type rawConfig struct {
	APIBaseURL     string `toml:"api_base_url"`
	DataDir        string `toml:"data_dir"`
	LogLevel       string `toml:"log_level"`
	RequestTimeout string `toml:"request_timeout"`
	Favorites      struct {
		Backend         string `toml:"backend"`
		CouchDBURL      string `toml:"couchdb_url"`
		CouchDBUser     string `toml:"couchdb_user"`
		CouchDBPassword string `toml:"couchdb_password"`
		CouchDBDatabase string `toml:"couchdb_database"`
	} `toml:"favorites"`
	Search struct {
		Debounce       string `toml:"debounce"`
		MinQueryLength int    `toml:"min_query_length"`
	} `toml:"search"`
}

// Load reads the TOML file at path (the default location when empty), then
// applies .env and environment overrides and validates the result. A missing
// file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := loadFile(resolved, &cfg); err != nil {
		return Config{}, err
	}

	env, err := readEnvFile(defaultEnvFile)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg, env)

	cfg.DataDir = mustExpand(cfg.DataDir)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Favorites.Backend = strings.ToLower(cfg.Favorites.Backend)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogPath is the log file inside the data directory.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "pantry.log")
}

// StatePath is the local key-value file holding the identifier and theme.
func (c Config) StatePath() string {
	return filepath.Join(c.dataDir(), "state.db")
}

// FavoritesPath is the local favorites document file.
func (c Config) FavoritesPath() string {
	return filepath.Join(c.dataDir(), "favorites.db")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.APIBaseURL, raw.APIBaseURL)
	setString(&cfg.DataDir, raw.DataDir)
	setString(&cfg.LogLevel, raw.LogLevel)
	setString(&cfg.Favorites.Backend, raw.Favorites.Backend)
	setString(&cfg.Favorites.CouchDBURL, raw.Favorites.CouchDBURL)
	setString(&cfg.Favorites.CouchDBUser, raw.Favorites.CouchDBUser)
	setString(&cfg.Favorites.CouchDBPassword, raw.Favorites.CouchDBPassword)
	setString(&cfg.Favorites.CouchDBDatabase, raw.Favorites.CouchDBDatabase)
	if raw.Search.MinQueryLength != 0 {
		cfg.Search.MinQueryLength = raw.Search.MinQueryLength
	}
	if err := setDuration(&cfg.RequestTimeout, raw.RequestTimeout); err != nil {
		return fmt.Errorf("parse config: request_timeout: %w", err)
	}
	if err := setDuration(&cfg.Search.Debounce, raw.Search.Debounce); err != nil {
		return fmt.Errorf("parse config: search.debounce: %w", err)
	}
	return nil
}

// readEnvFile returns the variables in path, or none when it does not exist.
func readEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return env, nil
}

// applyEnv overrides cfg from the process environment, then from file values
// the process environment does not set.
func applyEnv(cfg *Config, file map[string]string) {
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
		return file[key]
	}
	setString(&cfg.APIBaseURL, lookup(EnvAPIBaseURL))
	setString(&cfg.Favorites.Backend, lookup(EnvFavoritesBackend))
	setString(&cfg.Favorites.CouchDBURL, lookup(EnvCouchDBURL))
	setString(&cfg.Favorites.CouchDBUser, lookup(EnvCouchDBUser))
	setString(&cfg.Favorites.CouchDBPassword, lookup(EnvCouchDBPassword))
	setString(&cfg.Favorites.CouchDBDatabase, lookup(EnvCouchDBDatabase))
	setString(&cfg.LogLevel, lookup(EnvLogLevel))
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

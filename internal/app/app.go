package app

import (
	"context"
	"fmt"

	"github.com/five82/pantry/internal/config"
	"github.com/five82/pantry/internal/favorites"
	"github.com/five82/pantry/internal/identity"
	"github.com/five82/pantry/internal/kvstore"
	"github.com/five82/pantry/internal/logging"
	"github.com/five82/pantry/internal/mealdb"
	"github.com/five82/pantry/internal/prefs"
	"github.com/five82/pantry/internal/recipes"
	"github.com/five82/pantry/internal/settings"
	"github.com/five82/pantry/internal/state"
	"github.com/five82/pantry/internal/ui"
)

// Options configure the Pantry application.
type Options struct {
	ConfigPath string // empty uses default ~/.config/pantry/config.toml
	LogLevel   string // overrides the configured level when set
}

// Run boots the Pantry TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	logger, logCloser, err := logging.New(logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logCloser.Close()
	logger.Info("pantry starting", "backend", cfg.Favorites.Backend, "api", cfg.APIBaseURL)

	kv, err := kvstore.Open(cfg.StatePath())
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer kv.Close()

	docs, err := openDocstore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer docs.Close()

	client, err := mealdb.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init recipe client: %w", err)
	}

	store := state.NewStore()
	repo := favorites.NewRepository(docs, identity.NewProvider(kv), logger.With("component", "favorites"))

	uiOpts := ui.Options{
		Context:        ctx,
		Store:          store,
		Browser:        recipes.NewBrowser(store, client, logger.With("component", "browser")),
		Details:        recipes.NewDetails(store, client, logger.With("component", "details")),
		Favorite:       favorites.NewController(store, repo, logger.With("component", "favorite")),
		Favorites:      favorites.NewList(store, repo, logger.With("component", "favorites-list")),
		Settings:       settings.New(store, prefs.NewThemes(kv), logger.With("component", "settings")),
		Logger:         logger.With("component", "ui"),
		SearchDebounce: cfg.Search.Debounce,
		MinQueryLength: cfg.Search.MinQueryLength,
	}
	err = ui.Run(uiOpts)
	logger.Info("pantry stopped", "error", err)
	return err
}

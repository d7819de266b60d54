// Package settings holds the theme state shared by every view.
package settings

import (
	"context"
	"log/slog"

	"github.com/five82/pantry/internal/prefs"
	"github.com/five82/pantry/internal/state"
)

// ThemeStore loads and saves the theme mode.
type ThemeStore interface {
	Load() (prefs.ThemeMode, error)
	Save(mode prefs.ThemeMode) error
}

// Settings is the theme slice.
type Settings struct {
	themes ThemeStore
	logger *slog.Logger

	Theme *state.Machine[prefs.ThemeMode]
}

// New builds Settings whose machine notifies store.
func New(store *state.Store, themes ThemeStore, logger *slog.Logger) *Settings {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Settings{
		themes: themes,
		logger: logger,
		Theme:  state.NewMachine[prefs.ThemeMode](store, state.WithFallback("Failed to load theme")),
	}
}

// Init loads the persisted theme.
func (s *Settings) Init(ctx context.Context) (prefs.ThemeMode, error) {
	return s.Theme.Run(ctx, func(context.Context) (prefs.ThemeMode, error) {
		return s.themes.Load()
	})
}

// Mode returns the current theme, light until Init has loaded one.
func (s *Settings) Mode() prefs.ThemeMode {
	snap := s.Theme.Snapshot()
	if !snap.HasPayload || snap.Payload == "" {
		return prefs.Default()
	}
	return snap.Payload
}

// Set persists mode and then applies it. On failure the current mode stays.
func (s *Settings) Set(ctx context.Context, mode prefs.ThemeMode) (prefs.ThemeMode, error) {
	current := s.Mode()
	t := s.Theme.Begin()
	if err := s.themes.Save(mode); err != nil {
		s.logger.Warn("save theme failed", "theme", mode, "error", err)
		s.Theme.Resolve(t, current, err)
		return current, err
	}
	s.Theme.Resolve(t, mode, nil)
	s.logger.Info("theme changed", "theme", mode)
	return mode, nil
}

// Toggle switches between light and dark.
func (s *Settings) Toggle(ctx context.Context) (prefs.ThemeMode, error) {
	return s.Set(ctx, s.Mode().Toggle())
}

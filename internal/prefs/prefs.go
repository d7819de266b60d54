// Package prefs persists pantry's user preferences in the local key-value
// store. The only preference is the theme mode, stored under theme_mode.
package prefs

import (
	"fmt"
	"strings"

	"github.com/five82/pantry/internal/apperr"
)

// ThemeMode is the light or dark palette.
type ThemeMode string

const (
	Light ThemeMode = "light"
	Dark  ThemeMode = "dark"
)

const (
	// ThemeKey is the key the theme mode is stored under.
	ThemeKey     = "theme_mode"
	defaultTheme = Light
)

// Default returns the theme used when nothing valid is stored.
func Default() ThemeMode {
	return defaultTheme
}

// ParseThemeMode reads a stored or configured value.
func ParseThemeMode(s string) (ThemeMode, error) {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme mode %q", s)
	}
}

// Toggle returns the other mode.
func (m ThemeMode) Toggle() ThemeMode {
	if m == Dark {
		return Light
	}
	return Dark
}

func (m ThemeMode) String() string {
	return string(m)
}

// KV is the local persistence prefs need.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Themes loads and saves the theme mode.
type Themes struct {
	kv KV
}

// NewThemes builds Themes over kv.
func NewThemes(kv KV) *Themes {
	return &Themes{kv: kv}
}

// Load returns the stored mode, falling back to light when nothing valid is
// stored or the store cannot be read.
func (t *Themes) Load() (ThemeMode, error) {
	raw, ok, err := t.kv.Get(ThemeKey)
	if err != nil || !ok {
		return defaultTheme, nil // Graceful degradation
	}
	mode, err := ParseThemeMode(raw)
	if err != nil {
		return defaultTheme, nil // Graceful degradation
	}
	return mode, nil
}

// Save persists mode.
func (t *Themes) Save(mode ThemeMode) error {
	if _, err := ParseThemeMode(string(mode)); err != nil {
		return err
	}
	if err := t.kv.Set(ThemeKey, string(mode)); err != nil {
		return apperr.Storage("save theme", err)
	}
	return nil
}

package recipes

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/five82/pantry/internal/mealdb"
	"github.com/five82/pantry/internal/state"
)

// Details is the state of the recipe on screen.
type Details struct {
	source mealdb.Fetcher
	logger *slog.Logger

	Meal *state.Machine[*mealdb.Meal]

	mu sync.Mutex
	id string
}

// NewDetails builds a Details whose machine notifies store.
func NewDetails(store *state.Store, source mealdb.Fetcher, logger *slog.Logger) *Details {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Details{
		source: source,
		logger: logger,
		Meal:   state.NewMachine[*mealdb.Meal](store, state.WithFallback("Failed to load meal details")),
	}
}

// Load fetches the recipe with id.
func (d *Details) Load(ctx context.Context, id string) (*mealdb.Meal, error) {
	id = strings.TrimSpace(id)
	d.mu.Lock()
	d.id = id
	d.mu.Unlock()

	meal, err := d.Meal.Run(ctx, func(ctx context.Context) (*mealdb.Meal, error) {
		return d.source.LookupByID(ctx, id)
	})
	if err != nil {
		d.logger.Warn("meal detail lookup failed", "meal_id", id, "error", err)
	}
	return meal, err
}

// ID returns the id of the recipe last loaded.
func (d *Details) ID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

// Retry reloads the current recipe.
func (d *Details) Retry(ctx context.Context) (*mealdb.Meal, error) {
	id := d.ID()
	if id == "" {
		return nil, nil
	}
	return d.Load(ctx, id)
}

// Clear drops the recipe, as when the detail view closes.
func (d *Details) Clear() {
	d.mu.Lock()
	d.id = ""
	d.mu.Unlock()
	d.Meal.Clear()
}

// ResetError dismisses the error banner.
func (d *Details) ResetError() {
	d.Meal.ResetError()
}

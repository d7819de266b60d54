package favorites

import (
	"context"
	"log/slog"

	"github.com/five82/pantry/internal/state"
)

const toggleFallback = "Failed to update favorite"

// Controller owns the favorite flag of the recipe on screen.
type Controller struct {
	adapter Adapter
	logger  *slog.Logger

	// Flag is the detail view's only notion of "is this meal a favorite".
	Flag *state.Machine[bool]
}

// NewController builds a Controller whose machine notifies store.
func NewController(store *state.Store, adapter Adapter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		adapter: adapter,
		logger:  logger,
		Flag:    state.NewMachine[bool](store, state.WithFallback(toggleFallback)),
	}
}

// Toggle flips the favorite status of mealID based on the flag already held,
// without re-reading the store. The flag changes only after the store write
// succeeds; on failure it keeps its value and the machine fails.
func (c *Controller) Toggle(ctx context.Context, mealID string, meal MealSnapshot) (bool, error) {
	current := c.Flag.Snapshot()
	wasFavorite := current.HasPayload && current.Payload

	t := c.Flag.Begin()
	var err error
	if wasFavorite {
		err = c.adapter.Remove(ctx, mealID)
	} else {
		err = c.adapter.Add(ctx, mealID, meal)
	}
	if err != nil {
		c.logger.Warn("toggle favorite failed", "meal_id", mealID, "error", err)
		c.Flag.Resolve(t, wasFavorite, err)
		return wasFavorite, err
	}

	c.Flag.Resolve(t, !wasFavorite, nil)
	c.logger.Info("toggled favorite", "meal_id", mealID, "favorite", !wasFavorite)
	return !wasFavorite, nil
}

// CheckIsFavorite loads the flag for mealID with a one-shot read.
func (c *Controller) CheckIsFavorite(ctx context.Context, mealID string) (bool, error) {
	return c.Flag.Run(ctx, func(ctx context.Context) (bool, error) {
		return c.adapter.Contains(ctx, mealID)
	})
}

// Reset forgets the flag, as when the detail view closes.
func (c *Controller) Reset() {
	c.Flag.Clear()
}

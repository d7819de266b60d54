package favorites

import (
	"context"
	"log/slog"
	"sync"

	"github.com/five82/pantry/internal/state"
)

const listFallback = "Failed to load favorites"

// List is the favorites view's state: the records and the removal request.
type List struct {
	adapter Adapter
	logger  *slog.Logger

	Items   *state.Machine[[]Record]
	Removal *state.Machine[string]

	mu  sync.Mutex
	sub *Subscription
}

// NewList builds a List whose machines notify store.
func NewList(store *state.Store, adapter Adapter, logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &List{
		adapter: adapter,
		logger:  logger,
		Items:   state.NewMachine[[]Record](store, state.WithFallback(listFallback)),
		Removal: state.NewMachine[string](store, state.WithFallback(listFallback)),
	}
}

// Mount opens the realtime subscription. Every push replaces the whole list.
// Mounting an already mounted list does nothing.
func (l *List) Mount(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sub != nil {
		return
	}
	if !l.Items.Snapshot().HasPayload {
		l.Items.Begin()
	}
	l.sub = l.adapter.Subscribe(ctx, func(records []Record) {
		l.Items.Set(records)
	})
	l.logger.Debug("favorites list mounted")
}

// Unmount releases the subscription. It is a no-op when not mounted.
func (l *List) Unmount() {
	l.mu.Lock()
	sub := l.sub
	l.sub = nil
	l.mu.Unlock()
	if sub == nil {
		return
	}
	sub.Close()
	l.logger.Debug("favorites list unmounted")
}

// Mounted reports whether a subscription is held.
func (l *List) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub != nil
}

// Refresh re-reads the list once, independently of the subscription.
func (l *List) Refresh(ctx context.Context) ([]Record, error) {
	return l.Items.Run(ctx, l.adapter.List)
}

// Remove deletes mealID and, once the store confirms, filters it out of the
// local list ahead of the next push.
func (l *List) Remove(ctx context.Context, mealID string) error {
	t := l.Removal.Begin()
	if err := l.adapter.Remove(ctx, mealID); err != nil {
		l.logger.Warn("remove favorite failed", "meal_id", mealID, "error", err)
		l.Removal.Resolve(t, mealID, err)
		return err
	}
	l.Removal.Resolve(t, mealID, nil)
	l.Items.Update(func(records []Record) []Record {
		return without(records, mealID)
	})
	return nil
}

package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/five82/pantry/internal/mealdb"
	"github.com/five82/pantry/internal/state"
)

// QueryKind selects the recipe lookup a Query runs.
type QueryKind int

const (
	ByFirstLetter QueryKind = iota
	ByName
	ByCategory
	ByArea
)

func (k QueryKind) String() string {
	switch k {
	case ByFirstLetter:
		return "letter"
	case ByName:
		return "name"
	case ByCategory:
		return "category"
	case ByArea:
		return "area"
	default:
		return fmt.Sprintf("QueryKind(%d)", int(k))
	}
}

// Query is one meal list lookup.
type Query struct {
	Kind  QueryKind
	Value string
}

// Browser is the meal list state.
type Browser struct {
	source mealdb.Fetcher
	logger *slog.Logger

	Meals      *state.Machine[[]mealdb.Summary]
	Categories *state.Machine[[]string]
	Areas      *state.Machine[[]string]

	mu   sync.Mutex
	last Query
	has  bool
}

// NewBrowser builds a Browser whose machines notify store.
func NewBrowser(store *state.Store, source mealdb.Fetcher, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Browser{
		source:     source,
		logger:     logger,
		Meals:      state.NewMachine[[]mealdb.Summary](store, state.WithFallback("Failed to load meals")),
		Categories: state.NewMachine[[]string](store, state.WithFallback("Failed to load categories")),
		Areas:      state.NewMachine[[]string](store, state.WithFallback("Failed to load areas")),
	}
}

// Fetch runs q and stores the result in Meals.
func (b *Browser) Fetch(ctx context.Context, q Query) ([]mealdb.Summary, error) {
	q.Value = strings.TrimSpace(q.Value)
	b.mu.Lock()
	b.last, b.has = q, true
	b.mu.Unlock()

	meals, err := b.Meals.Run(ctx, func(ctx context.Context) ([]mealdb.Summary, error) {
		return b.lookup(ctx, q)
	})
	if err != nil {
		b.logger.Warn("meal lookup failed", "kind", q.Kind, "value", q.Value, "error", err)
	}
	return meals, err
}

// ByFirstLetter lists meals starting with letter.
func (b *Browser) ByFirstLetter(ctx context.Context, letter string) ([]mealdb.Summary, error) {
	return b.Fetch(ctx, Query{Kind: ByFirstLetter, Value: letter})
}

// ByName lists meals matching name.
func (b *Browser) ByName(ctx context.Context, name string) ([]mealdb.Summary, error) {
	return b.Fetch(ctx, Query{Kind: ByName, Value: name})
}

// ByCategory lists meals in category.
func (b *Browser) ByCategory(ctx context.Context, category string) ([]mealdb.Summary, error) {
	return b.Fetch(ctx, Query{Kind: ByCategory, Value: category})
}

// ByArea lists meals from area.
func (b *Browser) ByArea(ctx context.Context, area string) ([]mealdb.Summary, error) {
	return b.Fetch(ctx, Query{Kind: ByArea, Value: area})
}

// LastQuery returns the most recent query, if any.
func (b *Browser) LastQuery() (Query, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.has
}

// Retry re-issues the most recent query. It does nothing without one.
func (b *Browser) Retry(ctx context.Context) ([]mealdb.Summary, error) {
	q, ok := b.LastQuery()
	if !ok {
		return nil, nil
	}
	return b.Fetch(ctx, q)
}

// Clear empties the meal list and forgets the last query.
func (b *Browser) Clear() {
	b.mu.Lock()
	b.last, b.has = Query{}, false
	b.mu.Unlock()
	b.Meals.Clear()
}

// LoadCategories fetches the category names.
func (b *Browser) LoadCategories(ctx context.Context) ([]string, error) {
	return b.Categories.Run(ctx, b.source.ListCategories)
}

// LoadAreas fetches the area names.
func (b *Browser) LoadAreas(ctx context.Context) ([]string, error) {
	return b.Areas.Run(ctx, b.source.ListAreas)
}

func (b *Browser) lookup(ctx context.Context, q Query) ([]mealdb.Summary, error) {
	switch q.Kind {
	case ByFirstLetter:
		return b.source.SearchByFirstLetter(ctx, q.Value)
	case ByName:
		return b.source.SearchByName(ctx, q.Value)
	case ByCategory:
		return b.source.FilterByCategory(ctx, q.Value)
	case ByArea:
		return b.source.FilterByArea(ctx, q.Value)
	default:
		return nil, fmt.Errorf("unknown query kind %v", q.Kind)
	}
}

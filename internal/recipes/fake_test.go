package recipes

import (
	"context"
	"sync"

	"github.com/five82/pantry/internal/apperr"
	"github.com/five82/pantry/internal/mealdb"
)

type call struct {
	method string
	arg    string
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []call
	meals map[string][]mealdb.Summary
	err   error
	// gates blocks a call with the given arg until the channel is closed.
	gates map[string]chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{meals: map[string][]mealdb.Summary{}, gates: map[string]chan struct{}{}}
}

func (f *fakeFetcher) record(method, arg string) ([]mealdb.Summary, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{method, arg})
	gate := f.gates[arg]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.meals[arg], nil
}

func (f *fakeFetcher) FilterByCategory(_ context.Context, v string) ([]mealdb.Summary, error) {
	return f.record("FilterByCategory", v)
}

func (f *fakeFetcher) FilterByArea(_ context.Context, v string) ([]mealdb.Summary, error) {
	return f.record("FilterByArea", v)
}

func (f *fakeFetcher) SearchByFirstLetter(_ context.Context, v string) ([]mealdb.Summary, error) {
	return f.record("SearchByFirstLetter", v)
}

func (f *fakeFetcher) SearchByName(_ context.Context, v string) ([]mealdb.Summary, error) {
	return f.record("SearchByName", v)
}

func (f *fakeFetcher) LookupByID(_ context.Context, id string) (*mealdb.Meal, error) {
	list, err := f.record("LookupByID", id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperr.NotFound("lookup meal", "Meal")
	}
	return &mealdb.Meal{Summary: list[0]}, nil
}

func (f *fakeFetcher) ListCategories(context.Context) ([]string, error) {
	if _, err := f.record("ListCategories", ""); err != nil {
		return nil, err
	}
	return []string{"Beef", "Dessert"}, nil
}

func (f *fakeFetcher) ListAreas(context.Context) ([]string, error) {
	if _, err := f.record("ListAreas", ""); err != nil {
		return nil, err
	}
	return []string{"British", "Turkish"}, nil
}

func (f *fakeFetcher) callLog() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

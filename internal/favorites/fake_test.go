package favorites

import (
	"context"
	"errors"
	"sync"
)

type fakeAdapter struct {
	mu          sync.Mutex
	records     []Record
	adds        int
	removes     int
	contains    int
	lists       int
	subscribes  int
	err         error
	subscribeCh chan []Record
	subs        []*Subscription
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{subscribeCh: make(chan []Record)}
}

func (f *fakeAdapter) Add(_ context.Context, mealID string, meal MealSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds++
	if f.err != nil {
		return f.err
	}
	doc := Document{Favorites: f.records}
	doc.add(Record{MealID: mealID, Meal: meal})
	f.records = doc.Favorites
	return nil
}

func (f *fakeAdapter) Remove(_ context.Context, mealID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
	if f.err != nil {
		return f.err
	}
	f.records = without(f.records, mealID)
	return nil
}

func (f *fakeAdapter) List(context.Context) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	return append([]Record{}, f.records...), nil
}

func (f *fakeAdapter) Contains(_ context.Context, mealID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contains++
	if f.err != nil {
		return false, f.err
	}
	doc := Document{Favorites: f.records}
	return doc.index(mealID) >= 0, nil
}

// Subscribe forwards whatever the test sends on subscribeCh.
func (f *fakeAdapter) Subscribe(ctx context.Context, onChange func([]Record)) *Subscription {
	f.mu.Lock()
	f.subscribes++
	ch := f.subscribeCh
	f.mu.Unlock()

	sub := newSubscription(ctx, onChange, func(ctx context.Context, deliver func([]Record)) {
		for {
			select {
			case <-ctx.Done():
				return
			case recs := <-ch:
				deliver(recs)
			}
		}
	})
	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()
	return sub
}

func (f *fakeAdapter) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeAdapter) counts() (adds, removes, contains, lists, subscribes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.adds, f.removes, f.contains, f.lists, f.subscribes
}

var errBoom = errors.New("boom")

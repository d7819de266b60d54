package recipes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/pantry/internal/apperr"
	"github.com/five82/pantry/internal/mealdb"
	"github.com/five82/pantry/internal/state"
)

func TestBrowser_QueriesRouteToFetcher(t *testing.T) {
	ctx := context.Background()
	fake := newFakeFetcher()
	b := NewBrowser(state.NewStore(), fake, nil)

	_, _ = b.ByFirstLetter(ctx, "a")
	_, _ = b.ByName(ctx, " chicken ")
	_, _ = b.ByCategory(ctx, "Beef")
	_, _ = b.ByArea(ctx, "Turkish")

	want := []call{
		{"SearchByFirstLetter", "a"},
		{"SearchByName", "chicken"},
		{"FilterByCategory", "Beef"},
		{"FilterByArea", "Turkish"},
	}
	if diff := cmp.Diff(want, fake.callLog(), cmp.AllowUnexported(call{})); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if q, ok := b.LastQuery(); !ok || q != (Query{Kind: ByArea, Value: "Turkish"}) {
		t.Fatalf("LastQuery = %+v, %v", q, ok)
	}
}

func TestBrowser_SuccessAndFailure(t *testing.T) {
	ctx := context.Background()
	fake := newFakeFetcher()
	fake.meals["a"] = []mealdb.Summary{{ID: "1", Name: "Apple Frangipan Tart"}}
	b := NewBrowser(state.NewStore(), fake, nil)

	if _, err := b.ByFirstLetter(ctx, "a"); err != nil {
		t.Fatalf("ByFirstLetter returned error: %v", err)
	}
	got := b.Meals.Snapshot()
	if got.Status != state.Succeeded || len(got.Payload) != 1 {
		t.Fatalf("after success = %+v", got)
	}

	fake.err = apperr.Network("search meals", errors.New("connection refused"))
	if _, err := b.Retry(ctx); !errors.Is(err, apperr.ErrNetwork) {
		t.Fatalf("Retry error = %v, want network error", err)
	}
	got = b.Meals.Snapshot()
	if got.Status != state.Failed || got.Err != "connection refused" || len(got.Payload) != 1 {
		t.Fatalf("after failure = %+v, want failed with stale payload", got)
	}
}

func TestBrowser_LatestQueryWins(t *testing.T) {
	ctx := context.Background()
	fake := newFakeFetcher()
	fake.meals["a"] = []mealdb.Summary{{ID: "1", Name: "A meal"}}
	fake.meals["b"] = []mealdb.Summary{{ID: "2", Name: "B meal"}}
	gate := make(chan struct{})
	fake.gates["a"] = gate
	b := NewBrowser(state.NewStore(), fake, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = b.ByFirstLetter(ctx, "a")
	}()
	// Wait until A is in flight.
	deadline := time.Now().Add(time.Second)
	for len(fake.callLog()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if _, err := b.ByFirstLetter(ctx, "b"); err != nil {
		t.Fatalf("ByFirstLetter(b) returned error: %v", err)
	}
	close(gate)
	<-done

	got := b.Meals.Snapshot()
	if len(got.Payload) != 1 || got.Payload[0].ID != "2" {
		t.Fatalf("payload = %+v, want B's result", got.Payload)
	}
}

func TestBrowser_ClearForgetsQuery(t *testing.T) {
	fake := newFakeFetcher()
	b := NewBrowser(state.NewStore(), fake, nil)
	_, _ = b.ByName(context.Background(), "soup")

	b.Clear()

	if _, ok := b.LastQuery(); ok {
		t.Fatalf("LastQuery ok after Clear")
	}
	if got := b.Meals.Snapshot(); got.Status != state.Idle || got.HasPayload {
		t.Fatalf("Meals after Clear = %+v", got)
	}
	if meals, err := b.Retry(context.Background()); meals != nil || err != nil {
		t.Fatalf("Retry without query = (%v, %v)", meals, err)
	}
	if n := len(fake.callLog()); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestBrowser_CategoriesAndAreas(t *testing.T) {
	ctx := context.Background()
	b := NewBrowser(state.NewStore(), newFakeFetcher(), nil)

	if _, err := b.LoadCategories(ctx); err != nil {
		t.Fatalf("LoadCategories returned error: %v", err)
	}
	if _, err := b.LoadAreas(ctx); err != nil {
		t.Fatalf("LoadAreas returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Beef", "Dessert"}, b.Categories.Snapshot().Payload); diff != "" {
		t.Fatalf("categories (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"British", "Turkish"}, b.Areas.Snapshot().Payload); diff != "" {
		t.Fatalf("areas (-want +got):\n%s", diff)
	}
	if b.Meals.Snapshot().Status != state.Idle {
		t.Fatalf("loading lists touched the meal machine")
	}
}

func TestQueryKindString(t *testing.T) {
	if ByCategory.String() != "category" || QueryKind(9).String() != "QueryKind(9)" {
		t.Fatalf("unexpected QueryKind strings")
	}
}

package ui

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pantry/internal/apperr"
	"github.com/five82/pantry/internal/docstore"
	"github.com/five82/pantry/internal/favorites"
	"github.com/five82/pantry/internal/kvstore"
	"github.com/five82/pantry/internal/mealdb"
	"github.com/five82/pantry/internal/prefs"
	"github.com/five82/pantry/internal/recipes"
	"github.com/five82/pantry/internal/settings"
	"github.com/five82/pantry/internal/state"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls map[string][]string
	meals map[string][]mealdb.Summary
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: map[string][]string{}, meals: map[string][]mealdb.Summary{}}
}

func (f *fakeFetcher) record(method, arg string) []mealdb.Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method] = append(f.calls[method], arg)
	return f.meals[arg]
}

func (f *fakeFetcher) callsTo(method string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[method]...)
}

func (f *fakeFetcher) FilterByCategory(_ context.Context, v string) ([]mealdb.Summary, error) {
	return f.record("FilterByCategory", v), nil
}

func (f *fakeFetcher) FilterByArea(_ context.Context, v string) ([]mealdb.Summary, error) {
	return f.record("FilterByArea", v), nil
}

func (f *fakeFetcher) SearchByFirstLetter(_ context.Context, v string) ([]mealdb.Summary, error) {
	return f.record("SearchByFirstLetter", v), nil
}

func (f *fakeFetcher) SearchByName(_ context.Context, v string) ([]mealdb.Summary, error) {
	return f.record("SearchByName", v), nil
}

func (f *fakeFetcher) LookupByID(_ context.Context, id string) (*mealdb.Meal, error) {
	list := f.record("LookupByID", id)
	if len(list) == 0 {
		return nil, apperr.NotFound("lookup meal", "Meal")
	}
	return &mealdb.Meal{Summary: list[0], Instructions: "Boil water. Add pasta."}, nil
}

func (f *fakeFetcher) ListCategories(context.Context) ([]string, error) {
	f.record("ListCategories", "")
	return []string{"Beef", "Pasta"}, nil
}

func (f *fakeFetcher) ListAreas(context.Context) ([]string, error) {
	f.record("ListAreas", "")
	return []string{"Italian"}, nil
}

type staticIdentity string

func (s staticIdentity) Identifier(context.Context) (string, error) { return string(s), nil }

type harness struct {
	fetcher  *fakeFetcher
	repo     *favorites.Repository
	themes   *prefs.Themes
	list     *favorites.List
	settings *settings.Settings
	model    Model
}

// newHarness wires a model to real slices over temporary storage and a
// fake recipe API. The model has already seen a window size.
func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	docs, err := docstore.OpenBolt(filepath.Join(dir, "favorites.db"))
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	t.Cleanup(func() { _ = docs.Close() })
	kv, err := kvstore.Open(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("kvstore.Open: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	h := &harness{fetcher: newFakeFetcher(), themes: prefs.NewThemes(kv)}
	store := state.NewStore()
	h.repo = favorites.NewRepository(docs, staticIdentity("device-1"), nil)
	h.list = favorites.NewList(store, h.repo, nil)
	h.settings = settings.New(store, h.themes, nil)

	m := New(Options{
		Context:        t.Context(),
		Store:          store,
		Browser:        recipes.NewBrowser(store, h.fetcher, nil),
		Details:        recipes.NewDetails(store, h.fetcher, nil),
		Favorite:       favorites.NewController(store, h.repo, nil),
		Favorites:      h.list,
		Settings:       h.settings,
		SearchDebounce: 20 * time.Millisecond,
		MinQueryLength: 3,
	})
	t.Cleanup(m.shutdown)
	h.model, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// press sends one key to the model.
func (h *harness) press(t *testing.T, k string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	var cmd tea.Cmd
	h.model, cmd = update(t, h.model, msg)
	return cmd
}

// typeText sends each rune as a key press and returns every command produced.
func (h *harness) typeText(t *testing.T, text string) []tea.Cmd {
	t.Helper()
	var cmds []tea.Cmd
	for _, r := range text {
		cmds = append(cmds, h.press(t, string(r)))
	}
	return cmds
}

// run executes cmd and feeds what it produces back into the model until
// nothing is left. Commands that do not finish quickly (cursor blink,
// spinner ticks, store notifications) are dropped.
func (h *harness) run(t *testing.T, cmds ...tea.Cmd) {
	t.Helper()
	queue := cmds
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		for _, msg := range drain(cmd) {
			var next tea.Cmd
			h.model, next = update(t, h.model, msg)
			if _, ok := msg.(storeChangedMsg); ok {
				continue
			}
			queue = append(queue, next)
		}
	}
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(200 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

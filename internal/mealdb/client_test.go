package mealdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/pantry/internal/apperr"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("base = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com/api/json/v1/1?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.RawQuery != "" || u.Fragment != "" || u.Path != "/api/json/v1/1" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api/json/v1/1", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestClient_QueriesEncodeParameters(t *testing.T) {
	t.Parallel()

	var got []url.Values
	var paths []string
	var gotUserAgent string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		got = append(got, r.URL.Query())
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52977","strMeal":"Corba","strMealThumb":"https://img/corba.jpg"}]}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	calls := []struct {
		name  string
		call  func() ([]Summary, error)
		path  string
		key   string
		value string
	}{
		{"category", func() ([]Summary, error) { return c.FilterByCategory(ctx, "Side Dish") }, "/api/json/v1/1/filter.php", "c", "Side Dish"},
		{"area", func() ([]Summary, error) { return c.FilterByArea(ctx, "Turkish") }, "/api/json/v1/1/filter.php", "a", "Turkish"},
		{"letter", func() ([]Summary, error) { return c.SearchByFirstLetter(ctx, "c") }, "/api/json/v1/1/search.php", "f", "c"},
		{"name", func() ([]Summary, error) { return c.SearchByName(ctx, " cor ") }, "/api/json/v1/1/search.php", "s", "cor"},
	}

	for i, tc := range calls {
		items, err := tc.call()
		if err != nil {
			t.Fatalf("%s returned error: %v", tc.name, err)
		}
		want := []Summary{{ID: "52977", Name: "Corba", Thumbnail: "https://img/corba.jpg"}}
		if diff := cmp.Diff(want, items); diff != "" {
			t.Fatalf("%s items mismatch (-want +got):\n%s", tc.name, diff)
		}
		if paths[i] != tc.path {
			t.Fatalf("%s path = %q, want %q", tc.name, paths[i], tc.path)
		}
		if got[i].Get(tc.key) != tc.value {
			t.Fatalf("%s query = %v, want %s=%q", tc.name, got[i], tc.key, tc.value)
		}
	}

	if !strings.HasPrefix(gotUserAgent, "pantry/") {
		t.Fatalf("User-Agent = %q, want pantry/*", gotUserAgent)
	}
}

func TestClient_NullMealsIsEmptyList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	})

	items, err := c.SearchByFirstLetter(context.Background(), "q")
	if err != nil {
		t.Fatalf("SearchByFirstLetter returned error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %#v, want empty non-nil slice", items)
	}
}

func TestClient_LookupByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") != "52977" {
			_, _ = w.Write([]byte(`{"meals":null}`))
			return
		}
		_, _ = w.Write([]byte(`{"meals":[{
			"idMeal":"52977","strMeal":"Corba","strCategory":"Side","strArea":"Turkish",
			"strMealThumb":"https://img/corba.jpg","strTags":"Soup, ,Turkish",
			"strInstructions":"Pick through your lentils. Add the onion.  Serve",
			"strIngredient1":"Lentils","strMeasure1":"1 cup ",
			"strIngredient2":" ","strMeasure2":"",
			"strIngredient3":"Onion","strMeasure3":null,
			"strIngredient4":null
		}]}`))
	})

	meal, err := c.LookupByID(context.Background(), "52977")
	if err != nil {
		t.Fatalf("LookupByID returned error: %v", err)
	}

	want := &Meal{
		Summary:      Summary{ID: "52977", Name: "Corba", Thumbnail: "https://img/corba.jpg", Area: "Turkish", Category: "Side"},
		Instructions: "Pick through your lentils. Add the onion.  Serve",
		Tags:         []string{"Soup", "Turkish"},
		Ingredients:  []Ingredient{{Name: "Lentils", Measure: "1 cup"}, {Name: "Onion"}},
	}
	if diff := cmp.Diff(want, meal); diff != "" {
		t.Fatalf("meal mismatch (-want +got):\n%s", diff)
	}

	wantSteps := []Step{
		{Index: 1, Text: "Pick through your lentils."},
		{Index: 2, Text: "Add the onion."},
		{Index: 3, Text: "Serve."},
	}
	if diff := cmp.Diff(wantSteps, meal.Steps()); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	_, err = c.LookupByID(context.Background(), "1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("LookupByID(missing) error = %v, want ErrNotFound", err)
	}
	if apperr.Message(err, "") != "Meal not found" {
		t.Fatalf("message = %q, want %q", apperr.Message(err, ""), "Meal not found")
	}

	if _, err := c.LookupByID(context.Background(), "  "); err == nil {
		t.Fatalf("LookupByID(blank) returned nil error")
	}
}

func TestClient_ListNames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("c") == "list":
			_, _ = w.Write([]byte(`{"meals":[{"strCategory":"Beef"},{"strCategory":"Dessert"}]}`))
		case r.URL.Query().Get("a") == "list":
			_, _ = w.Write([]byte(`{"meals":[{"strArea":"Turkish"},{"strArea":""}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Beef", "Dessert"}, cats); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}

	areas, err := c.ListAreas(context.Background())
	if err != nil {
		t.Fatalf("ListAreas returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Turkish"}, areas); diff != "" {
		t.Fatalf("areas mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_FailuresAreNetworkErrors(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("s") {
		case "broken":
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	})

	_, err := c.SearchByName(context.Background(), "broken")
	if !errors.Is(err, apperr.ErrNetwork) || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("SearchByName error = %v, want network decode error", err)
	}

	_, err = c.SearchByName(context.Background(), "anything")
	if !errors.Is(err, apperr.ErrNetwork) || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("SearchByName error = %v, want network status 500 error", err)
	}

	dead, err := NewClient("http://127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := dead.ListAreas(context.Background()); !errors.Is(err, apperr.ErrNetwork) {
		t.Fatalf("ListAreas error = %v, want ErrNetwork", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.SearchByName(context.Background(), "x"); err == nil {
		t.Fatalf("nil client returned nil error")
	}
	if _, err := c.LookupByID(context.Background(), "1"); err == nil {
		t.Fatalf("nil client returned nil error")
	}
}

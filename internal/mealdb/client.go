package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/pantry/internal/apperr"
)

// Fetcher defines the recipe queries pantry issues.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FilterByCategory(ctx context.Context, category string) ([]Summary, error)
	FilterByArea(ctx context.Context, area string) ([]Summary, error)
	SearchByFirstLetter(ctx context.Context, letter string) ([]Summary, error)
	SearchByName(ctx context.Context, query string) ([]Summary, error)
	LookupByID(ctx context.Context, id string) (*Meal, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListAreas(ctx context.Context) ([]string, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to TheMealDB HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the public v1 endpoint with the test key.
	DefaultBaseURL        = "https://www.themealdb.com/api/json/v1/1"
	defaultUserAgent      = "pantry/0.1"
	defaultRequestTimeout = 10 * time.Second
)

// NewClient builds a Client for baseURL. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FilterByCategory lists meals in category.
func (c *Client) FilterByCategory(ctx context.Context, category string) ([]Summary, error) {
	return c.summaries(ctx, "filter.php", "c", category)
}

// FilterByArea lists meals from area.
func (c *Client) FilterByArea(ctx context.Context, area string) ([]Summary, error) {
	return c.summaries(ctx, "filter.php", "a", area)
}

// SearchByFirstLetter lists meals whose name starts with letter.
func (c *Client) SearchByFirstLetter(ctx context.Context, letter string) ([]Summary, error) {
	return c.summaries(ctx, "search.php", "f", letter)
}

// SearchByName lists meals whose name contains query.
func (c *Client) SearchByName(ctx context.Context, query string) ([]Summary, error) {
	return c.summaries(ctx, "search.php", "s", query)
}

// LookupByID fetches one full recipe.
func (c *Client) LookupByID(ctx context.Context, id string) (*Meal, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("meal id required")
	}
	var payload mealsEnvelope
	if err := c.get(ctx, "lookup.php", url.Values{"i": {id}}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Meals) == 0 || payload.Meals[0] == nil {
		return nil, apperr.NotFound("lookup meal "+id, "Meal")
	}
	meal := payload.Meals[0].meal()
	return &meal, nil
}

// ListCategories returns every category name.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	return c.names(ctx, "c", "strCategory")
}

// ListAreas returns every area name.
func (c *Client) ListAreas(ctx context.Context) ([]string, error) {
	return c.names(ctx, "a", "strArea")
}

func (c *Client) summaries(ctx context.Context, endpoint, param, value string) ([]Summary, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload mealsEnvelope
	if err := c.get(ctx, endpoint, url.Values{param: {strings.TrimSpace(value)}}, &payload); err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(payload.Meals))
	for _, raw := range payload.Meals {
		if raw == nil {
			continue
		}
		out = append(out, raw.summary())
	}
	return out, nil
}

func (c *Client) names(ctx context.Context, param, field string) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload mealsEnvelope
	if err := c.get(ctx, "list.php", url.Values{param: {"list"}}, &payload); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(payload.Meals))
	for _, raw := range payload.Meals {
		if name := raw.get(field); name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = strings.TrimSuffix(reqURL.Path, "/") + "/" + endpoint
	reqURL.RawQuery = query.Encode()
	op := endpoint + "?" + reqURL.RawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Network(op, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return apperr.Network(op, fmt.Errorf("api returned status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return apperr.Network(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

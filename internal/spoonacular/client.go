// Package spoonacular is a thin client for the Spoonacular recipe API. Response
// bodies are returned untouched so callers can relay them as-is.
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://api.spoonacular.com"
	defaultNumber  = 10
	maxBodyBytes   = 8 << 20
)

var ErrNotConfigured = errors.New("spoonacular API key not configured")

// Config holds Spoonacular client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// SearchParams mirrors the complexSearch query. Empty strings are omitted and
// a zero Number means 10.
type SearchParams struct {
	Query        string
	Diet         string
	Intolerances string
	Number       int
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Search(ctx context.Context, p SearchParams) (json.RawMessage, error) {
	q := url.Values{}
	setIf(q, "query", p.Query)
	setIf(q, "diet", p.Diet)
	setIf(q, "intolerances", p.Intolerances)
	number := p.Number
	if number <= 0 {
		number = defaultNumber
	}
	q.Set("number", strconv.Itoa(number))
	q.Set("addRecipeInformation", "true")
	q.Set("instructionsRequired", "true")
	return c.get(ctx, "/recipes/complexSearch", q)
}

// Information returns the full record of a Spoonacular recipe, with nutrition.
func (c *Client) Information(ctx context.Context, id string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("includeNutrition", "true")
	return c.get(ctx, "/recipes/"+url.PathEscape(id)+"/information", q)
}

// Extract asks Spoonacular to scrape a recipe from an arbitrary web page.
func (c *Client) Extract(ctx context.Context, pageURL string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("forceExtraction", "true")
	return c.get(ctx, "/recipes/extract", q)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spoonacular request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read spoonacular response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("spoonacular returned status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("spoonacular returned invalid JSON")
	}
	return json.RawMessage(body), nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// Package wikipedia fetches and dissects ja.wikipedia.org article pages:
// rendered page HTML via the MediaWiki API, infobox key/value cells, the
// running body text, and the page category list.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Japanese Wikipedia API endpoint.
const DefaultBaseURL = "https://ja.wikipedia.org/w/api.php"

const (
	requestTimeout = 30 * time.Second
	maxBodySize    = 10 * 1024 * 1024 // 10 MB cap on API responses

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Page is a fetched article: rendered HTML plus the category list.
type Page struct {
	Title      string
	PageID     int64
	HTML       string
	Categories []string
	FetchedAt  time.Time
}

// Client talks to the MediaWiki API. A nil Cache disables caching and a nil
// logger silences the client.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
	log     *slog.Logger
}

// NewClient returns a Client against baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, cache *Cache, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		cache:   cache,
		log:     log,
	}
}

// FetchPage returns the page for title, from the cache when a fresh entry
// exists, otherwise from the API. A cache write failure is logged, not fatal.
func (c *Client) FetchPage(ctx context.Context, title string) (*Page, error) {
	if c.cache != nil {
		page, ok, err := c.cache.Get(title)
		if err != nil {
			c.log.Warn("page cache read failed", "title", title, "error", err)
		} else if ok {
			c.log.Info("page served from cache", "title", title)
			return page, nil
		}
	}

	page, err := c.fetchParse(ctx, title)
	if err != nil {
		return nil, err
	}
	cats, err := c.fetchCategories(ctx, title)
	if err != nil {
		return nil, err
	}
	page.Categories = cats
	page.FetchedAt = time.Now()

	if c.cache != nil {
		if err := c.cache.Put(page); err != nil {
			c.log.Warn("page cache write failed", "title", title, "error", err)
		}
	}
	return page, nil
}

func (c *Client) fetchParse(ctx context.Context, title string) (*Page, error) {
	params := url.Values{
		"action":    {"parse"},
		"format":    {"json"},
		"page":      {title},
		"prop":      {"text"},
		"redirects": {"true"},
	}
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch page %q: %w", title, err)
	}

	var payload struct {
		Error *struct {
			Info string `json:"info"`
		} `json:"error"`
		Parse *struct {
			Title  string `json:"title"`
			PageID int64  `json:"pageid"`
			Text   struct {
				HTML string `json:"*"`
			} `json:"text"`
		} `json:"parse"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode parse response for %q: %w", title, err)
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("api error for %q: %s", title, payload.Error.Info)
	}
	if payload.Parse == nil {
		return nil, fmt.Errorf("page not found: %q", title)
	}

	c.log.Info("page fetched", "title", title, "page_id", payload.Parse.PageID)
	return &Page{
		Title:  title,
		PageID: payload.Parse.PageID,
		HTML:   payload.Parse.Text.HTML,
	}, nil
}

func (c *Client) fetchCategories(ctx context.Context, title string) ([]string, error) {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"titles":  {title},
		"prop":    {"categories"},
		"cllimit": {"max"},
	}
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch categories for %q: %w", title, err)
	}

	var payload struct {
		Query struct {
			Pages map[string]struct {
				Categories []struct {
					Title string `json:"title"`
				} `json:"categories"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode category response for %q: %w", title, err)
	}

	var cats []string
	for _, page := range payload.Query.Pages {
		for _, cat := range page.Categories {
			cats = append(cats, cat.Title)
		}
	}
	c.log.Info("categories fetched", "title", title, "count", len(cats))
	return cats, nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if resp.ContentLength > maxBodySize {
		return nil, fmt.Errorf("content length %d exceeds %d byte limit", resp.ContentLength, maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) >= int64(maxBodySize) {
		return nil, fmt.Errorf("response body exceeded %d byte limit", maxBodySize)
	}
	return body, nil
}

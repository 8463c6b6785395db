package wikipedia

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBExecutor is satisfied by both *sql.DB and *sql.Tx.
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS pages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	page_id INTEGER NOT NULL,
	html TEXT NOT NULL,
	categories TEXT NOT NULL DEFAULT '[]',
	fetched_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at)
`

// DefaultMaxAge is how long a cached page stays fresh.
const DefaultMaxAge = 7 * 24 * time.Hour

// Cache stores fetched pages in SQLite, keyed by title. Only raw upstream
// data is cached; extraction output is always recomputed.
type Cache struct {
	db     DBExecutor
	maxAge time.Duration
}

// NewCache wraps an executor. maxAge <= 0 selects DefaultMaxAge.
func NewCache(db DBExecutor, maxAge time.Duration) *Cache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Cache{db: db, maxAge: maxAge}
}

// InitCacheDB creates the cache tables on the given connection.
func InitCacheDB(db *sql.DB) error {
	for _, stmt := range strings.Split(cacheSchema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init cache schema: %w", err)
		}
	}
	return nil
}

// Get returns the cached page for title. ok is false when the entry is
// missing or older than maxAge.
func (c *Cache) Get(title string) (*Page, bool, error) {
	var (
		page     Page
		catsJSON string
	)
	err := c.db.QueryRow(
		`SELECT title, page_id, html, categories, fetched_at FROM pages WHERE title = ?`,
		title,
	).Scan(&page.Title, &page.PageID, &page.HTML, &catsJSON, &page.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached page: %w", err)
	}
	if time.Since(page.FetchedAt) > c.maxAge {
		return nil, false, nil
	}
	if err := json.Unmarshal([]byte(catsJSON), &page.Categories); err != nil {
		return nil, false, fmt.Errorf("decode cached categories: %w", err)
	}
	return &page, true, nil
}

// Put inserts or refreshes the entry for page.Title.
func (c *Cache) Put(page *Page) error {
	if strings.TrimSpace(page.Title) == "" {
		return fmt.Errorf("page title must be non-empty")
	}
	catsJSON, err := json.Marshal(page.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO pages (title, page_id, html, categories, fetched_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(title) DO UPDATE SET
		   page_id = excluded.page_id,
		   html = excluded.html,
		   categories = excluded.categories,
		   fetched_at = excluded.fetched_at`,
		page.Title, page.PageID, page.HTML, string(catsJSON), page.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cached page: %w", err)
	}
	return nil
}

// Prune deletes entries older than maxAge and reports how many went.
func (c *Cache) Prune() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM pages WHERE fetched_at < ?`, time.Now().Add(-c.maxAge))
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}

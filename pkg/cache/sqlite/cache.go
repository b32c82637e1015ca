package sqlite

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pario-ai/oars/pkg/models"
)

// Cache is a response body cache keyed by request URL, backed by SQLite.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	hits   atomic.Int64
	misses atomic.Int64
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS response_cache (
	url TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	ttl_seconds INTEGER NOT NULL
);
`

// New creates a Cache with the given database path and default TTL.
func New(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Get retrieves a cached body. Returns false if not found or expired.
func (c *Cache) Get(url string) ([]byte, bool) {
	var body []byte
	var createdAt, ttlSeconds int64

	err := c.db.QueryRow(
		`SELECT body, created_at, ttl_seconds FROM response_cache WHERE url = ?`,
		url,
	).Scan(&body, &createdAt, &ttlSeconds)

	if err != nil {
		c.misses.Add(1)
		return nil, false
	}

	if c.now().Unix()-createdAt > ttlSeconds {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return body, true
}

// Put stores a body in the cache.
func (c *Cache) Put(url string, body []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO response_cache (url, body, created_at, ttl_seconds)
		 VALUES (?, ?, ?, ?)`,
		url, body, c.now().Unix(), int64(c.ttl.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Stats returns cache size and performance metrics. Hits and misses count
// lookups made through this Cache only.
func (c *Cache) Stats() (models.CacheStats, error) {
	stats := models.CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	err := c.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN ? - created_at > ttl_seconds THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(LENGTH(body)), 0)
		 FROM response_cache`,
		c.now().Unix(),
	).Scan(&stats.Entries, &stats.Expired, &stats.Bytes)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// TTL returns the lifetime given to new entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Clear removes cache entries and reports how many went. If expiredOnly is
// true, only expired entries are removed.
func (c *Cache) Clear(expiredOnly bool) (int64, error) {
	query := `DELETE FROM response_cache`
	var args []any
	if expiredOnly {
		query += ` WHERE ? - created_at > ttl_seconds`
		args = append(args, c.now().Unix())
	}
	res, err := c.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return n, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

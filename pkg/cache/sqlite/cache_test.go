package sqlite

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache_test.db")
	c, err := New(dbPath, ttl)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

const workURL = "https://api.openalex.org/works/W2741809807"

func TestPutAndGet(t *testing.T) {
	c := newTestCache(t, time.Hour)

	if err := c.Put(workURL, []byte(`{"id":"W2741809807"}`)); err != nil {
		t.Fatal(err)
	}

	data, ok := c.Get(workURL)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"id":"W2741809807"}` {
		t.Errorf("unexpected body: %s", data)
	}

	// Query string is part of the key
	_, ok = c.Get(workURL + "?mailto=me@example.org")
	if ok {
		t.Error("expected cache miss for different URL")
	}
}

func TestPutReplaces(t *testing.T) {
	c := newTestCache(t, time.Hour)

	_ = c.Put(workURL, []byte("old"))
	_ = c.Put(workURL, []byte("new"))

	data, ok := c.Get(workURL)
	if !ok || string(data) != "new" {
		t.Errorf("expected replaced body, got %q (hit=%v)", data, ok)
	}
}

func TestTTLExpiration(t *testing.T) {
	c := newTestCache(t, time.Minute)
	start := time.Now()
	c.now = func() time.Time { return start }

	if err := c.Put(workURL, []byte("data")); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return start.Add(30 * time.Second) }
	if _, ok := c.Get(workURL); !ok {
		t.Error("expected cache hit within TTL")
	}

	c.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, ok := c.Get(workURL); ok {
		t.Error("expected cache miss after TTL expiration")
	}
}

func TestStats(t *testing.T) {
	c := newTestCache(t, time.Hour)

	_ = c.Put("u1", []byte("data"))
	c.Get("u1") // hit
	c.Get("u2") // miss

	stats, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestStatsCountsExpired(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_ = c.Put("stale", []byte("12345"))
	c.now = time.Now
	_ = c.Put("fresh", []byte("123"))

	stats, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 2 || stats.Expired != 1 {
		t.Errorf("expected 2 entries with 1 expired, got %+v", stats)
	}
	if stats.Bytes != 8 {
		t.Errorf("expected 8 bytes, got %d", stats.Bytes)
	}
	if c.TTL() != time.Hour {
		t.Errorf("ttl = %s", c.TTL())
	}
}

func TestClear(t *testing.T) {
	c := newTestCache(t, time.Hour)

	_ = c.Put("u1", []byte("data"))
	_ = c.Put("u2", []byte("data"))

	n, err := c.Clear(false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}

	stats, _ := c.Stats()
	if stats.Entries != 0 {
		t.Errorf("expected 0 entries after clear, got %d", stats.Entries)
	}
}

func TestClearExpiredOnly(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_ = c.Put("stale", []byte("data"))
	c.now = time.Now
	_ = c.Put("fresh", []byte("data"))

	n, err := c.Clear(true)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}

	stats, _ := c.Stats()
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry after clearing expired, got %d", stats.Entries)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry should survive")
	}
}

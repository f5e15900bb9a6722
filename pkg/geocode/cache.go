package geocode

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Cache is a persistent geocode result cache backed by SQLite. Non-matches
// are cached too so repeat runs skip known-bad addresses.
type Cache struct {
	db *sql.DB
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	address_hash    TEXT PRIMARY KEY,
	matched_address TEXT NOT NULL,
	latitude        REAL NOT NULL,
	longitude       REAL NOT NULL,
	matched         INTEGER NOT NULL,
	cached_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// OpenCache opens (creating if needed) a cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: open cache")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "geocode: exec %s", pragma)
		}
	}
	if _, err := db.Exec(cacheMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "geocode: migrate cache")
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey returns SHA-256 hex of the whitespace-normalized, lowercased address.
func cacheKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

// Lookup returns the cached result for address, or nil on a miss.
func (c *Cache) Lookup(ctx context.Context, address string) (*Result, error) {
	var r Result
	var matched int

	row := c.db.QueryRowContext(ctx,
		`SELECT matched_address, latitude, longitude, matched FROM geocode_cache WHERE address_hash = ?`,
		cacheKey(address))
	if err := row.Scan(&r.MatchedAddress, &r.Latitude, &r.Longitude, &matched); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "geocode: cache lookup")
	}

	r.Matched = matched != 0
	return &r, nil
}

// Store inserts or refreshes the cached result for address.
func (c *Cache) Store(ctx context.Context, address string, result *Result) error {
	matched := 0
	if result.Matched {
		matched = 1
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (address_hash, matched_address, latitude, longitude, matched, cached_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT (address_hash) DO UPDATE SET
			matched_address = excluded.matched_address,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			matched = excluded.matched,
			cached_at = datetime('now')`,
		cacheKey(address), result.MatchedAddress, result.Latitude, result.Longitude, matched)
	return eris.Wrap(err, "geocode: cache store")
}

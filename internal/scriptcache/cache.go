// Package scriptcache persists the outcome of compiling a source text,
// keyed by a content hash, so a host that recompiles the same unchanged
// script across process runs can skip straight to a cached disassembly and
// diagnostic list. There is no defined wire format for a binary round-trip
// of value.Script/value.Value (only the in-memory layout is defined), so
// this cache deliberately stores the disassembled *text* artifact produced
// by internal/bytecode.Disassemble rather than a re-loadable Script — a
// cache hit still means recompiling, just with a shortcut past re-running
// the diagnostics pass.
//
// The keyed, on-disk record of prior work mirrors a ModuleCache/
// CachedModule bookkeeping shape; the multi-driver database/sql
// registration below follows the same blank-import-per-backend pattern
// a multi-database service would use; see drivers.go.
package scriptcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// Entry is one cached compile outcome.
type Entry struct {
	Hash        string
	Path        string
	OK          bool
	Disassembly string
	Diagnostics []string
	CachedAt    time.Time
}

// Cache is a content-hash-keyed store of compile outcomes backed by
// database/sql. The schema is a single table; no migrations machinery is
// needed at this scale, just an ad hoc CREATE TABLE IF NOT EXISTS.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) a cache database at dsn, selecting
// the driver by scheme — see drivers.go. An empty dsn opens an in-memory
// sqlite cache, useful for a one-shot CLI invocation that still wants the
// hit-path exercised without leaving a file behind.
func Open(dsn string) (*Cache, error) {
	driver, source := selectDriver(dsn)
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("scriptcache: open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scriptcache: ping %s: %w", driver, err)
	}
	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS compile_cache (
			hash TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			ok INTEGER NOT NULL,
			disassembly TEXT,
			diagnostics TEXT,
			cached_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("scriptcache: migrate: %w", err)
	}
	return nil
}

// Close releases the underlying *sql.DB.
func (c *Cache) Close() error { return c.db.Close() }

// Hash returns the content-hash key for a source text, per this cache's
// key scheme (sha256, hex-encoded).
func Hash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached entry for hash, if any.
func (c *Cache) Lookup(hash string) (Entry, bool, error) {
	row := c.db.QueryRow(`
		SELECT hash, path, ok, disassembly, diagnostics, cached_at
		FROM compile_cache WHERE hash = ?
	`, hash)

	var e Entry
	var ok int
	var diagnostics string
	var cachedAt string
	err := row.Scan(&e.Hash, &e.Path, &ok, &e.Disassembly, &diagnostics, &cachedAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("scriptcache: lookup: %w", err)
	}
	e.OK = ok != 0
	if diagnostics != "" {
		e.Diagnostics = splitLines(diagnostics)
	}
	e.CachedAt, _ = time.Parse(time.RFC3339, cachedAt)
	return e, true, nil
}

// Store records (or overwrites) the compile outcome for hash.
func (c *Cache) Store(e Entry) error {
	_, err := c.db.Exec(`
		INSERT INTO compile_cache (hash, path, ok, disassembly, diagnostics, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			path = excluded.path,
			ok = excluded.ok,
			disassembly = excluded.disassembly,
			diagnostics = excluded.diagnostics,
			cached_at = excluded.cached_at
	`, e.Hash, e.Path, boolToInt(e.OK), e.Disassembly, joinLines(e.Diagnostics), e.CachedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("scriptcache: store: %w", err)
	}
	return nil
}

// Size reports the number of cached entries and an approximate byte cost,
// for cmd/tessera's "cache stats" command.
func (c *Cache) Size() (count int, bytes int64, err error) {
	row := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(LENGTH(disassembly) + LENGTH(diagnostics)), 0) FROM compile_cache`)
	if err := row.Scan(&count, &bytes); err != nil {
		return 0, 0, fmt.Errorf("scriptcache: size: %w", err)
	}
	return count, bytes, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

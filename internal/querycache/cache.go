// Package querycache is a disk-backed cache of serialized BFS query
// results, grounded in ldobbelsteen-wikipath's cache.go SearchCache
// (ring-buffer-of-keys eviction once a byte budget is exceeded), but
// backed by a mattn/go-sqlite3 table so a long-running analysis server's
// cache survives process restarts. A cache miss always falls through to a
// live BFS computation (internal/bfs); this package never changes query
// semantics, only latency (spec.md SPEC_FULL.md §4.11).
package querycache

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Key addresses one cached result: an operation name ("distance", "path",
// "step-groups"), a root NodeID, and an optional second parameter (a
// destination NodeID or a max-depth), per SPEC_FULL.md §4.11.
type Key struct {
	Operation string
	Root      uint32
	Param     uint32
}

// Cache is a byte-budgeted, disk-backed cache of query results keyed by
// Key. Eviction happens in insertion order (oldest first) once the byte
// budget is exceeded, the same discipline as the teacher's in-memory
// SearchCache, applied here to rows in a sqlite table instead of an
// in-process ring buffer.
type Cache struct {
	mutex       sync.Mutex
	db          *sql.DB
	maxBytes    int64
	curBytes    int64
	insertOrder []Key // oldest first
}

// Open opens (creating if necessary) a sqlite-backed cache file with a
// byte budget of maxBytes.
func Open(path string, maxBytes int64) (*Cache, error) {
	if maxBytes < 0 {
		return nil, errors.New("querycache: invalid cache size")
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal=WAL")
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cache (
			operation TEXT NOT NULL,
			root      INTEGER NOT NULL,
			param     INTEGER NOT NULL,
			value     BLOB NOT NULL,
			seq       INTEGER NOT NULL,
			PRIMARY KEY (operation, root, param)
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	c := &Cache{db: db, maxBytes: maxBytes}
	if err := c.loadState(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) loadState() error {
	rows, err := c.db.Query(`SELECT operation, root, param, length(value) FROM cache ORDER BY seq ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k Key
		var size int64
		if err := rows.Scan(&k.Operation, &k.Root, &k.Param, &size); err != nil {
			return err
		}
		c.insertOrder = append(c.insertOrder, k)
		c.curBytes += size
	}
	return rows.Err()
}

// Close closes the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Fetch returns a previously stored value for key, or (nil, false) on a
// miss.
func (c *Cache) Fetch(key Key) ([]byte, bool) {
	var value []byte
	err := c.db.QueryRow(
		`SELECT value FROM cache WHERE operation = ? AND root = ? AND param = ?`,
		key.Operation, key.Root, key.Param,
	).Scan(&value)
	if err != nil {
		return nil, false
	}
	return value, true
}

// Store inserts value under key, evicting the oldest entries first if the
// byte budget would be exceeded. A key that already exists is left
// unchanged (matches the teacher's "ignore if already stored" behavior).
func (c *Cache) Store(key Key, value []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.Fetch(key); exists {
		return nil
	}

	var seq int64
	if err := c.db.QueryRow(`SELECT COALESCE(MAX(seq), -1) + 1 FROM cache`).Scan(&seq); err != nil {
		return fmt.Errorf("querycache: store: %w", err)
	}
	_, err := c.db.Exec(
		`INSERT INTO cache (operation, root, param, value, seq) VALUES (?, ?, ?, ?, ?)`,
		key.Operation, key.Root, key.Param, value, seq,
	)
	if err != nil {
		return fmt.Errorf("querycache: store: %w", err)
	}
	c.insertOrder = append(c.insertOrder, key)
	c.curBytes += int64(len(value))

	for c.curBytes > c.maxBytes && len(c.insertOrder) > 0 {
		if err := c.evictOldest(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) evictOldest() error {
	oldest := c.insertOrder[0]
	var size int64
	err := c.db.QueryRow(
		`SELECT length(value) FROM cache WHERE operation = ? AND root = ? AND param = ?`,
		oldest.Operation, oldest.Root, oldest.Param,
	).Scan(&size)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`DELETE FROM cache WHERE operation = ? AND root = ? AND param = ?`,
		oldest.Operation, oldest.Root, oldest.Param,
	)
	if err != nil {
		return err
	}
	c.insertOrder = c.insertOrder[1:]
	c.curBytes -= size
	return nil
}

// Package metadatacache persists parsed SessionMetadata in an embedded
// sqlite database, so a restart does not have to re-parse every *.jsonl
// file under ASSISTANT_HOME. Rows are keyed by session id (the file name
// without ".jsonl") and record the file's path and mtime; a lookup hits
// only when the stored mtime matches. Rows are not keyed by path, so two
// session files with the same name in different project directories
// share one row.
package metadatacache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ccboard/ccboard/pkg/log"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/qustavo/sqlhooks/v2"
)

var driverRegistered bool

// Cache wraps a sqlx handle to the on-disk metadata database.
type Cache struct {
	db *sqlx.DB

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats reports cumulative lookup hit/miss counts, exposed by
// /api/health for diagnosing cold-start performance.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Stats returns the cache's cumulative hit/miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Open connects to (and if needed creates) the sqlite file at path, puts it
// in WAL mode, and runs the schema-version check. Because sqlite only
// supports one writer, the pool is capped to a single connection, matching
// how a strictly single-process, single-writer cache should be configured.
func Open(path string) (*Cache, error) {
	if !driverRegistered {
		sql.Register("sqlite3_ccboard", sqlhooks.Wrap(&sqlite3.SQLiteDriver{}, &queryLogHook{}))
		driverRegistered = true
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("metadatacache: create cache directory for %s: %w", path, err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on", path)
	db, err := sqlx.Open("sqlite3_ccboard", dsn)
	if err != nil {
		return nil, fmt.Errorf("metadatacache: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) exec(query string, args ...any) error {
	_, err := c.db.Exec(query, args...)
	return err
}

// queryLogHook mirrors the teacher's sqlhooks-based query logging, emitting
// each statement at debug level so a slow cache lookup can be diagnosed
// without a separate profiling tool.
type queryLogHook struct{}

func (h *queryLogHook) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	log.Debugf("metadatacache: %s %v", query, args)
	return ctx, nil
}

func (h *queryLogHook) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	return ctx, nil
}

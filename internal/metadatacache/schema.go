package metadatacache

import "fmt"

// schemaVersion is bumped whenever the cached blob layout changes in a way
// that is not self-describing. There is no migration path: a version bump
// means every existing row is discarded and sessions are re-indexed from
// their source *.jsonl files, which is cheap compared to the complexity of
// hand-writing per-version migrations for a pure cache.
//
// History:
//
//	v1 - initial session_cache table (path, mtime, blob)
//	v2 - added project column for per-project filtering without a blob decode
//	v3 - added branch column for the same reason
//	v4 - added has_subagents column
const schemaVersion = 4

const createSchemaMetaSQL = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);`

const createSessionCacheSQL = `
CREATE TABLE IF NOT EXISTS session_cache (
	id            TEXT PRIMARY KEY,
	path          TEXT NOT NULL,
	project       TEXT NOT NULL,
	branch        TEXT NOT NULL DEFAULT '',
	mtime         INTEGER NOT NULL,
	has_subagents INTEGER NOT NULL DEFAULT 0,
	blob          BLOB NOT NULL
);`

const createSessionCacheIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_session_cache_project ON session_cache(project);`

func (c *Cache) ensureSchema() error {
	if err := c.exec(createSchemaMetaSQL); err != nil {
		return fmt.Errorf("metadatacache: create schema_meta: %w", err)
	}

	var storedVersion int
	err := c.db.Get(&storedVersion, `SELECT version FROM schema_meta LIMIT 1`)
	if err != nil {
		// No row yet: fresh database.
		if err := c.exec(`INSERT INTO schema_meta(version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("metadatacache: seed schema_meta: %w", err)
		}
	} else if storedVersion != schemaVersion {
		if err := c.clearForVersionBump(storedVersion); err != nil {
			return err
		}
	}

	if err := c.exec(createSessionCacheSQL); err != nil {
		return fmt.Errorf("metadatacache: create session_cache: %w", err)
	}
	if err := c.exec(createSessionCacheIndexSQL); err != nil {
		return fmt.Errorf("metadatacache: create session_cache index: %w", err)
	}
	return nil
}

func (c *Cache) clearForVersionBump(oldVersion int) error {
	if err := c.exec(`DROP TABLE IF EXISTS session_cache`); err != nil {
		return fmt.Errorf("metadatacache: drop stale session_cache (v%d -> v%d): %w", oldVersion, schemaVersion, err)
	}
	if err := c.exec(`UPDATE schema_meta SET version = ?`, schemaVersion); err != nil {
		return fmt.Errorf("metadatacache: bump schema version: %w", err)
	}
	return nil
}

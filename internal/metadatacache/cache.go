package metadatacache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ccboard/ccboard/internal/models"
)

type sessionRow struct {
	ID           string `db:"id"`
	Path         string `db:"path"`
	Project      string `db:"project"`
	Branch       string `db:"branch"`
	Mtime        int64  `db:"mtime"`
	HasSubagents bool   `db:"has_subagents"`
	Blob         []byte `db:"blob"`
}

// Lookup returns the cached SessionMetadata for id if present and its
// stored mtime matches currentMtime. A mismatch means the source file
// changed since it was cached, so the caller should treat it as a miss and
// re-parse, then InsertOrReplace the fresh result.
func (c *Cache) Lookup(id models.SessionID, currentMtime int64) (models.SessionMetadata, bool, error) {
	var row sessionRow
	err := c.db.Get(&row, `SELECT id, path, project, branch, mtime, has_subagents, blob FROM session_cache WHERE id = ?`, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		c.misses.Add(1)
		return models.SessionMetadata{}, false, nil
	}
	if err != nil {
		return models.SessionMetadata{}, false, fmt.Errorf("metadatacache: lookup %s: %w", id, err)
	}
	if row.Mtime != currentMtime {
		c.misses.Add(1)
		return models.SessionMetadata{}, false, nil
	}

	var meta models.SessionMetadata
	if err := json.Unmarshal(row.Blob, &meta); err != nil {
		return models.SessionMetadata{}, false, fmt.Errorf("metadatacache: decode blob for %s: %w", id, err)
	}
	c.hits.Add(1)
	return meta, true, nil
}

// InsertOrReplace stores meta, replacing any existing row for the same ID.
func (c *Cache) InsertOrReplace(meta models.SessionMetadata) error {
	blob, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("metadatacache: encode blob for %s: %w", meta.ID, err)
	}
	_, err = c.db.Exec(
		`INSERT INTO session_cache (id, path, project, branch, mtime, has_subagents, blob)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   path = excluded.path, project = excluded.project, branch = excluded.branch,
		   mtime = excluded.mtime, has_subagents = excluded.has_subagents, blob = excluded.blob`,
		string(meta.ID), meta.Path, meta.Project, meta.Branch, meta.Mtime, meta.HasSubagents, blob,
	)
	if err != nil {
		return fmt.Errorf("metadatacache: upsert %s: %w", meta.ID, err)
	}
	return nil
}

// Invalidate removes the cached row for id, if any, used when a session's
// source file is deleted.
func (c *Cache) Invalidate(id models.SessionID) error {
	if err := c.exec(`DELETE FROM session_cache WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("metadatacache: invalidate %s: %w", id, err)
	}
	return nil
}

// Clear empties the entire cache, used by the "clear-cache" CLI command and
// whenever a schema version bump forces a full rebuild.
func (c *Cache) Clear() error {
	if err := c.exec(`DELETE FROM session_cache`); err != nil {
		return fmt.Errorf("metadatacache: clear: %w", err)
	}
	return nil
}

// ProjectIDs returns the ids of every cached session under project,
// letting a project-scoped load skip the blob decode for rows outside it.
func (c *Cache) ProjectIDs(project string) ([]models.SessionID, error) {
	var ids []string
	if err := c.db.Select(&ids, `SELECT id FROM session_cache WHERE project = ?`, project); err != nil {
		return nil, fmt.Errorf("metadatacache: project ids for %s: %w", project, err)
	}
	out := make([]models.SessionID, len(ids))
	for i, id := range ids {
		out[i] = models.SessionID(id)
	}
	return out, nil
}

// Count returns the number of cached rows, used by diagnostics and tests.
func (c *Cache) Count() (int, error) {
	var n int
	if err := c.db.Get(&n, `SELECT COUNT(*) FROM session_cache`); err != nil {
		return 0, fmt.Errorf("metadatacache: count: %w", err)
	}
	return n, nil
}

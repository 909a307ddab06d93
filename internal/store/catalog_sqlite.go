package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/models"
)

const createRecordingsTable = `CREATE TABLE IF NOT EXISTS recordings (
	recording_id TEXT PRIMARY KEY,
	origin       TEXT NOT NULL,
	file_name    TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	pending      INTEGER NOT NULL DEFAULT 1
);`

// sqliteCatalog is the SQLite-backed Catalog used on the edge peer, where a
// full database server is not an option. Recording files live side by side
// in recordingsDir, named "{id}.m4a".
type sqliteCatalog struct {
	db            *sql.DB
	recordingsDir string
	logger        *logger.Logger
}

// NewSQLiteCatalog opens (creating if necessary) the catalog database at
// dbPath and ensures the schema exists. recordingsDir is where the source
// audio files are expected.
func NewSQLiteCatalog(dbPath, recordingsDir string, log *logger.Logger) (Catalog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}

	// mattn/go-sqlite3 serializes writes per connection; a single
	// connection avoids SQLITE_BUSY under concurrent triggers.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}
	if _, err = db.Exec(createRecordingsTable); err != nil {
		return nil, fmt.Errorf("create recordings table: %w", err)
	}

	return &sqliteCatalog{db: db, recordingsDir: recordingsDir, logger: log}, nil
}

func (c *sqliteCatalog) Add(ctx context.Context, rec models.Recording) error {
	query, args, err := sq.Insert("recordings").
		Columns("recording_id", "origin", "file_name", "created_at", "pending").
		Values(rec.ID, string(rec.Origin), rec.FileName, rec.CreatedAt, 1).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert recording query: %w", err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		c.logger.Err(err).Str("recording_id", rec.ID).Msg("failed to add recording to catalog")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (c *sqliteCatalog) PendingIDs(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("recording_id").
		From("recordings").
		Where(sq.Eq{"pending": 1}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending ids query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return ids, nil
}

func (c *sqliteCatalog) FileExists(id string) bool {
	info, err := os.Stat(c.PathFor(id))
	return err == nil && info.Mode().IsRegular()
}

func (c *sqliteCatalog) PathFor(id string) string {
	return filepath.Join(c.recordingsDir, id+".m4a")
}

func (c *sqliteCatalog) RemoveFromPending(ctx context.Context, id string) error {
	query, args, err := sq.Update("recordings").
		Set("pending", 0).
		Where(sq.Eq{"recording_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove from pending query: %w", err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		c.logger.Err(err).Str("recording_id", id).Msg("failed to remove recording from pending")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

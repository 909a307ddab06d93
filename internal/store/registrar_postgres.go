package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/migrations"
	"github.com/voicememo/recsync/models"
)

// postgresRegistrar is the Postgres-backed Registrar used on the primary
// store. All queries go through database/sql with the pgx stdlib driver.
type postgresRegistrar struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewPostgresRegistrar connects to the primary-store database, runs pending
// migrations and returns a Registrar.
func NewPostgresRegistrar(ctx context.Context, dsn string, log *logger.Logger) (Registrar, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}
	db.SetMaxOpenConns(10)

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}
	if err = migrations.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate recordings schema: %w", err)
	}

	log.Info().Msg("connected to primary store database")
	return &postgresRegistrar{db: db, logger: log}, nil
}

func (r *postgresRegistrar) Register(ctx context.Context, rec models.Recording) error {
	query, args, err := sq.Insert("recordings").
		Columns("recording_id", "origin", "file_name", "checksum", "received_at").
		Values(rec.ID, string(rec.Origin), rec.FileName, rec.Checksum, rec.CreatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build register recording query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		// The transport delivers at least once. A duplicate receipt of an
		// already-registered recording is a success, not a conflict.
		if isUniqueViolation(err) {
			r.logger.Debug().Str("recording_id", rec.ID).Msg("recording already registered")
			return nil
		}
		r.logger.Err(err).Str("recording_id", rec.ID).Msg("failed to register recording")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *postgresRegistrar) Remove(ctx context.Context, id string) error {
	query, args, err := sq.Delete("recordings").
		Where(sq.Eq{"recording_id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove recording query: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("recording_id", id).Msg("failed to remove recording")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/models"
)

func newMockRegistrar(t *testing.T) (*postgresRegistrar, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &postgresRegistrar{db: db, logger: logger.Nop()}, mock
}

func storedRecording() models.Recording {
	return models.Recording{
		ID:        "watch_aaaaaaaa-0000-4000-8000-000000000001",
		Origin:    models.OriginWatch,
		FileName:  "watch_aaaaaaaa-0000-4000-8000-000000000001.m4a",
		Checksum:  "aa11",
		CreatedAt: time.Now().UTC(),
	}
}

func TestPostgresRegistrar_Register(t *testing.T) {
	reg, mock := newMockRegistrar(t)
	rec := storedRecording()

	mock.ExpectExec(`INSERT INTO recordings`).
		WithArgs(rec.ID, string(rec.Origin), rec.FileName, rec.Checksum, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, reg.Register(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRegistrar_RegisterDuplicateIsNoError(t *testing.T) {
	reg, mock := newMockRegistrar(t)
	rec := storedRecording()

	// повторная доставка: unique violation не считается ошибкой
	mock.ExpectExec(`INSERT INTO recordings`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	require.NoError(t, reg.Register(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRegistrar_RegisterQueryError(t *testing.T) {
	reg, mock := newMockRegistrar(t)

	mock.ExpectExec(`INSERT INTO recordings`).
		WillReturnError(errors.New("connection reset"))

	err := reg.Register(context.Background(), storedRecording())
	require.ErrorIs(t, err, ErrExecutingQuery)
}

func TestPostgresRegistrar_Remove(t *testing.T) {
	reg, mock := newMockRegistrar(t)

	mock.ExpectExec(`DELETE FROM recordings`).
		WithArgs("watch_aaaaaaaa-0000-4000-8000-000000000001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, reg.Remove(context.Background(), "watch_aaaaaaaa-0000-4000-8000-000000000001"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

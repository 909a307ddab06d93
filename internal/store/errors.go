package store

import "errors"

var (
	// ErrExecutingQuery wraps database errors raised while executing a query.
	ErrExecutingQuery = errors.New("error executing query")

	// ErrScanningRow wraps errors raised while scanning a result row.
	ErrScanningRow = errors.New("error scanning row")

	// ErrOpeningDatabase wraps connection establishment failures.
	ErrOpeningDatabase = errors.New("error opening database")
)

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/migrations"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps the raw *sql.DB connection together with the error classifier and
// a fallback logger. All repositories embed *DB for query execution.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnectPostgres opens a PostgreSQL connection through the pgx stdlib
// driver, verifies it with a ping, and returns the wrapped [*DB].
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occurred during database connection")
		return nil, fmt.Errorf("error occurred during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	db := &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}

	return db, nil
}

// Migrate applies the embedded goose migrations against the connection.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// maxExecRetries bounds how many extra attempts ExecWithRetry makes after a
// transient failure.
const maxExecRetries = 2

// ExecWithRetry runs ExecContext and retries when the error classifier
// reports the failure as transient (connection loss, deadlock rollback).
// Non-retryable errors and exhausted retries return the last error as-is.
//
// Only statements that are safe to re-execute belong here: the retry makes
// no attempt to detect whether the previous attempt was partially applied.
func (db *DB) ExecWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	var err error

	for attempt := 0; attempt <= maxExecRetries; attempt++ {
		result, err = db.ExecContext(ctx, query, args...)
		if err == nil || db.errorClassificator.Classify(err) == NonRetryable {
			break
		}
	}

	return result, err
}

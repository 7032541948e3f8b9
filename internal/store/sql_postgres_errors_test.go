package store

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	classifier := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil error → non-retryable", err: nil, want: NonRetryable},
		{name: "plain error → non-retryable", err: errors.New("boom"), want: NonRetryable},
		{name: "connection failure 08006 → retryable", err: &pgconn.PgError{Code: "08006"}, want: Retryable},
		{name: "connection does not exist 08003 → retryable", err: &pgconn.PgError{Code: "08003"}, want: Retryable},
		{name: "serialization failure 40001 → retryable", err: &pgconn.PgError{Code: "40001"}, want: Retryable},
		{name: "deadlock detected 40P01 → retryable", err: &pgconn.PgError{Code: "40P01"}, want: Retryable},
		{name: "cannot connect now 57P03 → retryable", err: &pgconn.PgError{Code: "57P03"}, want: Retryable},
		{name: "unique violation 23505 → non-retryable", err: &pgconn.PgError{Code: "23505"}, want: NonRetryable},
		{name: "syntax error 42601 → non-retryable", err: &pgconn.PgError{Code: "42601"}, want: NonRetryable},
		{name: "wrapped pg error is unwrapped", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"}), want: Retryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "40001"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestDB_ExecWithRetry_RetriesTransientError(t *testing.T) {
	db, mock := newTestDB(t)
	wrapped := newDBFromSQL(db)

	cutoff := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(purgeDeletedEntries)).
		WithArgs(cutoff).
		WillReturnError(&pgconn.PgError{Code: "08006"})
	mock.ExpectExec(regexp.QuoteMeta(purgeDeletedEntries)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	result, err := wrapped.ExecWithRetry(testContext(), purgeDeletedEntries, cutoff)

	require.NoError(t, err)
	affected, _ := result.RowsAffected()
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_ExecWithRetry_DoesNotRetryNonRetryableError(t *testing.T) {
	db, mock := newTestDB(t)
	wrapped := newDBFromSQL(db)

	mock.ExpectExec(regexp.QuoteMeta(purgeDeletedEntries)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := wrapped.ExecWithRetry(testContext(), purgeDeletedEntries, time.Now())

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_ExecWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	db, mock := newTestDB(t)
	wrapped := newDBFromSQL(db)

	for i := 0; i < maxExecRetries+1; i++ {
		mock.ExpectExec(regexp.QuoteMeta(purgeDeletedEntries)).
			WillReturnError(&pgconn.PgError{Code: "40P01"})
	}

	_, err := wrapped.ExecWithRetry(testContext(), purgeDeletedEntries, time.Now())

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

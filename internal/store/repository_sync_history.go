package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
)

// syncHistoryRepository is the PostgreSQL-backed implementation of
// [SyncHistoryRepository]. Records are append-only: there is no update or
// delete path through this type.
type syncHistoryRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncHistoryRepository constructs a [SyncHistoryRepository] backed by the
// provided database connection and logger.
func NewSyncHistoryRepository(db *DB, logger *logger.Logger) SyncHistoryRepository {
	return &syncHistoryRepository{
		DB:     db,
		logger: logger,
	}
}

// Append implements [SyncHistoryRepository].
//
// The insert is retried on transient connection errors: audit records are
// written outside the sync call's atomicity boundary, so a lost append is
// gone for good.
func (s *syncHistoryRepository) Append(ctx context.Context, record models.SyncRecord) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecWithRetry(ctx, insertSyncRecord,
		record.UserID,
		record.ClientVersion,
		record.Status,
		record.Success,
		record.Processed,
		record.Created,
		record.Updated,
		record.Deleted,
		record.Conflicts,
		record.ClientIP,
		record.UserAgent,
		record.CreatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "syncHistoryRepository.Append").
			Int64("user_id", record.UserID).
			Msg("failed to append sync history record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// FindByOwner implements [SyncHistoryRepository].
//
// Returns an empty slice when the owner has no recorded synchronizations.
func (s *syncHistoryRepository) FindByOwner(ctx context.Context, userID int64, limit, offset int) ([]models.SyncRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindSyncRecordsQuery(userID, limit, offset)
	if err != nil {
		log.Err(err).
			Str("func", "syncHistoryRepository.FindByOwner").
			Int64("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := s.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "syncHistoryRepository.FindByOwner").
			Int64("user_id", userID).
			Msg("failed to execute query for listing sync history")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	records := make([]models.SyncRecord, 0, 50)

	for rows.Next() {
		var record models.SyncRecord

		scanErr := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.ClientVersion,
			&record.Status,
			&record.Success,
			&record.Processed,
			&record.Created,
			&record.Updated,
			&record.Deleted,
			&record.Conflicts,
			&record.ClientIP,
			&record.UserAgent,
			&record.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "syncHistoryRepository.FindByOwner").
				Int64("user_id", userID).
				Msg("failed to scan sync history row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "syncHistoryRepository.FindByOwner").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

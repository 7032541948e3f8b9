package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
)

// vaultEntryRepository is the PostgreSQL-backed implementation of
// [VaultEntryRepository]. It executes all entry operations directly against
// the "vault_entries" table using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (user_id, entry_id, version, etc.).
type vaultEntryRepository struct {
	*DB
	logger *logger.Logger
}

// NewVaultEntryRepository constructs a [VaultEntryRepository] backed by the
// provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewVaultEntryRepository(db *DB, logger *logger.Logger) VaultEntryRepository {
	return &vaultEntryRepository{
		DB:     db,
		logger: logger,
	}
}

// FindActiveByID implements [VaultEntryRepository].
func (v *vaultEntryRepository) FindActiveByID(ctx context.Context, entryID string, userID int64) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	var entry models.VaultEntry

	row := v.DB.QueryRowContext(ctx, findActiveEntryByID, entryID, userID)
	if err := scanVaultEntry(row.Scan, &entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VaultEntry{}, ErrEntryNotFound
		}

		log.Err(err).
			Str("func", "vaultEntryRepository.FindActiveByID").
			Str("entry_id", entryID).
			Int64("user_id", userID).
			Msg("failed to read vault entry row")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entry, nil
}

// FindAllByOwner implements [VaultEntryRepository].
//
// Returns an empty slice when the owner has no matching entries.
func (v *vaultEntryRepository) FindAllByOwner(ctx context.Context, userID int64, includeDeleted bool) ([]models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindAllByOwnerQuery(userID, includeDeleted)
	if err != nil {
		log.Err(err).
			Str("func", "vaultEntryRepository.FindAllByOwner").
			Int64("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := v.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "vaultEntryRepository.FindAllByOwner").
			Int64("user_id", userID).
			Bool("include_deleted", includeDeleted).
			Msg("failed to execute query for listing owner vault entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	entries := make([]models.VaultEntry, 0, 50)

	for rows.Next() {
		var entry models.VaultEntry

		if scanErr := scanVaultEntry(rows.Scan, &entry); scanErr != nil {
			log.Err(scanErr).
				Str("func", "vaultEntryRepository.FindAllByOwner").
				Int64("user_id", userID).
				Msg("failed to scan vault entry row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "vaultEntryRepository.FindAllByOwner").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}

// Create implements [VaultEntryRepository].
//
// The entry is stored exactly as provided; the caller is responsible for
// allocating EntryID and setting Version=1 and the creation timestamps.
// Creates are never deduplicated: retrying a create with a fresh EntryID
// produces a second, distinct entry.
func (v *vaultEntryRepository) Create(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	result, err := v.DB.ExecContext(ctx, insertVaultEntry,
		entry.EntryID,
		entry.UserID,
		entry.Ciphertext,
		entry.IV,
		entry.AuthTag,
		entry.Version,
		entry.FolderID,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "vaultEntryRepository.Create").
			Str("entry_id", entry.EntryID).
			Int64("user_id", entry.UserID).
			Msg("failed to execute insert for vault entry")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Error().
			Str("func", "vaultEntryRepository.Create").
			Str("entry_id", entry.EntryID).
			Msg("vault entry was not saved")
		return models.VaultEntry{}, ErrEntryNotSaved
	}

	return entry, nil
}

// UpdateWithVersion implements [VaultEntryRepository].
//
// It executes the CTE-based conditional update ([updateEntryWithVersion])
// that returns both the updated row ID and the current database version,
// enabling the caller to distinguish "not found" (zero result rows) from
// "version conflict" (updated ID NULL, current version non-NULL). The
// version check and the increment happen in one atomic statement, which is
// the concurrency-correctness invariant the sync engine rests on: an
// in-memory read is never trusted to still be current at write time.
func (v *vaultEntryRepository) UpdateWithVersion(ctx context.Context, entry models.VaultEntry, expectedVersion int64) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	var updatedID *string
	var currentDBVersion *int64
	var newVersion *int64

	queryRowErr := v.DB.QueryRowContext(ctx, updateEntryWithVersion,
		entry.EntryID,
		entry.UserID,
		entry.Ciphertext,
		entry.IV,
		entry.AuthTag,
		entry.FolderID,
		entry.UpdatedAt,
		expectedVersion,
	).Scan(&updatedID, &currentDBVersion, &newVersion)

	if queryRowErr != nil {
		// Zero result rows: the target entry is missing or tombstoned.
		if errors.Is(queryRowErr, sql.ErrNoRows) {
			log.Warn().
				Str("func", "vaultEntryRepository.UpdateWithVersion").
				Str("entry_id", entry.EntryID).
				Int64("user_id", entry.UserID).
				Msg("vault entry not found")
			return models.VaultEntry{}, ErrEntryNotFound
		}

		log.Err(queryRowErr).
			Str("func", "vaultEntryRepository.UpdateWithVersion").
			Str("entry_id", entry.EntryID).
			Msg("failed to execute conditional update query")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	// Row found but not updated: the optimistic-lock check failed.
	if updatedID == nil {
		log.Warn().
			Str("func", "vaultEntryRepository.UpdateWithVersion").
			Str("entry_id", entry.EntryID).
			Int64("db_version", *currentDBVersion).
			Int64("expected_version", expectedVersion).
			Msg("optimistic lock failed: version mismatch on update")
		return models.VaultEntry{}, ErrVersionConflict
	}

	entry.Version = *newVersion

	log.Info().
		Str("func", "vaultEntryRepository.UpdateWithVersion").
		Str("entry_id", entry.EntryID).
		Int64("version", entry.Version).
		Msg("successfully updated vault entry")

	return entry, nil
}

// SoftDelete implements [VaultEntryRepository].
//
// Soft-delete sets the tombstone timestamp and bumps the version, preserving
// the row so that other devices can observe the deletion during sync and so
// the entry can be restored until the retention purge removes it.
func (v *vaultEntryRepository) SoftDelete(ctx context.Context, entryID string, userID int64, at time.Time) error {
	log := logger.FromContext(ctx)

	result, err := v.DB.ExecContext(ctx, softDeleteEntry, entryID, userID, at)
	if err != nil {
		log.Err(err).
			Str("func", "vaultEntryRepository.SoftDelete").
			Str("entry_id", entryID).
			Int64("user_id", userID).
			Msg("failed to execute soft delete statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "vaultEntryRepository.SoftDelete").
			Str("entry_id", entryID).
			Msg("no active vault entry to soft-delete")
		return ErrEntryNotFound
	}

	return nil
}

// Restore implements [VaultEntryRepository].
func (v *vaultEntryRepository) Restore(ctx context.Context, entryID string, userID int64, at time.Time) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	var entry models.VaultEntry

	row := v.DB.QueryRowContext(ctx, restoreEntry, entryID, userID, at)
	if err := scanVaultEntry(row.Scan, &entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().
				Str("func", "vaultEntryRepository.Restore").
				Str("entry_id", entryID).
				Msg("no soft-deleted vault entry to restore")
			return models.VaultEntry{}, ErrEntryNotFound
		}

		log.Err(err).
			Str("func", "vaultEntryRepository.Restore").
			Str("entry_id", entryID).
			Msg("failed to execute restore query")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Info().
		Str("func", "vaultEntryRepository.Restore").
		Str("entry_id", entryID).
		Int64("version", entry.Version).
		Msg("successfully restored vault entry")

	return entry, nil
}

// PurgeDeletedBefore implements [VaultEntryRepository].
//
// Only tombstones strictly older than cutoff are removed; an entry deleted
// exactly at the cutoff instant is retained. The delete is idempotent, so it
// is retried on transient connection errors.
func (v *vaultEntryRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := v.DB.ExecWithRetry(ctx, purgeDeletedEntries, cutoff)
	if err != nil {
		log.Err(err).
			Str("func", "vaultEntryRepository.PurgeDeletedBefore").
			Time("cutoff", cutoff).
			Msg("failed to execute purge statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	purged, _ := result.RowsAffected()

	if purged > 0 {
		log.Info().
			Str("func", "vaultEntryRepository.PurgeDeletedBefore").
			Time("cutoff", cutoff).
			Int64("purged", purged).
			Msg("purged expired vault entry tombstones")
	}

	return purged, nil
}

// scanVaultEntry reads one vault entry row in the canonical column order
// shared by all entry SELECT queries.
func scanVaultEntry(scan func(dest ...any) error, entry *models.VaultEntry) error {
	return scan(
		&entry.EntryID,
		&entry.UserID,
		&entry.Ciphertext,
		&entry.IV,
		&entry.AuthTag,
		&entry.Version,
		&entry.FolderID,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.DeletedAt,
	)
}

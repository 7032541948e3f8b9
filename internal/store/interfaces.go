package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// VaultEntryRepository is the transactional storage for vault entries.
// Every operation is scoped by the owning user ID; there is no way to reach
// another owner's entries through this interface.
type VaultEntryRepository interface {
	// FindActiveByID returns the current non-deleted entry identified by
	// (entryID, userID), or [ErrEntryNotFound] if no active entry exists.
	FindActiveByID(ctx context.Context, entryID string, userID int64) (models.VaultEntry, error)

	// FindAllByOwner returns the owner's entries. With includeDeleted=false
	// only active entries are returned; with true, tombstoned entries are
	// included as well (DeletedAt set).
	FindAllByOwner(ctx context.Context, userID int64, includeDeleted bool) ([]models.VaultEntry, error)

	// Create persists a brand-new entry with version 1 and returns it.
	Create(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error)

	// UpdateWithVersion replaces the payload of an active entry, but only if
	// its stored version still equals expectedVersion at write time. The
	// check-and-increment is performed atomically by the database, so two
	// concurrent updates against the same entry cannot both succeed: the
	// loser receives [ErrVersionConflict]. A missing or tombstoned entry
	// yields [ErrEntryNotFound].
	//
	// On success the returned entry carries version expectedVersion+1.
	UpdateWithVersion(ctx context.Context, entry models.VaultEntry, expectedVersion int64) (models.VaultEntry, error)

	// SoftDelete tombstones an active entry at the given time, bumping its
	// version. Returns [ErrEntryNotFound] if no active entry exists.
	SoftDelete(ctx context.Context, entryID string, userID int64, at time.Time) error

	// Restore clears the tombstone of a soft-deleted entry, bumping its
	// version. Returns [ErrEntryNotFound] if no deleted entry exists.
	Restore(ctx context.Context, entryID string, userID int64, at time.Time) (models.VaultEntry, error)

	// PurgeDeletedBefore permanently removes entries whose tombstone is
	// strictly older than cutoff and returns the number of purged rows.
	// Entries deleted exactly at cutoff are retained.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SyncHistoryRepository is the append-only store for synchronization audit
// records.
type SyncHistoryRepository interface {
	// Append persists one immutable sync record.
	Append(ctx context.Context, record models.SyncRecord) error

	// FindByOwner returns the owner's sync records, newest first.
	// A non-positive limit falls back to a server-side default.
	FindByOwner(ctx context.Context, userID int64, limit, offset int) ([]models.SyncRecord, error)
}

// UserRepository persists account records for authentication.
type UserRepository interface {
	// CreateUser stores a new user and returns it with the server-assigned
	// UserID. Returns [ErrLoginAlreadyExists] on a duplicate login.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByLogin returns the user with the given login, or
	// [ErrNoUserWasFound].
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

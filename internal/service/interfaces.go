package service

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ConflictResolver decides, for a single proposed change against a known
// server entry, whether a conflict exists and which side wins.
//
// Implementations must be pure: no storage access, no clocks, no side
// effects. The orchestrator performs the actual write.
type ConflictResolver interface {
	Resolve(serverEntry models.VaultEntry, change models.ClientChange) models.Decision
}

// SyncService drives one complete synchronization call: a batch of client
// changes in, one aggregated response out.
type SyncService interface {
	Synchronize(ctx context.Context, request models.SyncRequest) (models.SyncResponse, error)
}

// HistoryService records and exposes the synchronization audit trail.
type HistoryService interface {
	// Record appends one SyncRecord describing a finished synchronization
	// call. Recording is best-effort: failures are logged and swallowed,
	// never propagated, so that auditing can never fail a sync.
	Record(ctx context.Context, request models.SyncRequest, response models.SyncResponse)

	// ListHistory returns the owner's sync records, newest first.
	ListHistory(ctx context.Context, userID int64, limit, offset int) ([]models.SyncRecord, error)
}

// VaultEntryService exposes read and lifecycle operations on vault entries
// outside the sync flow.
type VaultEntryService interface {
	// ListEntries returns the owner's entries; includeDeleted adds
	// tombstoned rows for audit/restore purposes.
	ListEntries(ctx context.Context, userID int64, includeDeleted bool) ([]models.VaultEntry, error)

	// RestoreEntry clears the tombstone of a soft-deleted entry.
	RestoreEntry(ctx context.Context, entryID string, userID int64) (models.VaultEntry, error)
}

// AuthService handles account registration, credential verification, and the
// JWT token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// IDGenerator allocates identifiers for entries created during sync.
type IDGenerator interface {
	Generate() string
}

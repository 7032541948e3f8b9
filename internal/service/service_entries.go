package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
)

// vaultEntryService is the concrete implementation of [VaultEntryService].
type vaultEntryService struct {
	entries store.VaultEntryRepository

	// now is injectable for tests; production wiring uses time.Now.
	now func() time.Time

	logger *logger.Logger
}

// NewVaultEntryService constructs a [VaultEntryService] backed by the given
// entry store.
func NewVaultEntryService(entries store.VaultEntryRepository, logger *logger.Logger) VaultEntryService {
	return &vaultEntryService{
		entries: entries,
		now:     time.Now,
		logger:  logger,
	}
}

// ListEntries implements [VaultEntryService].
func (v *vaultEntryService) ListEntries(ctx context.Context, userID int64, includeDeleted bool) ([]models.VaultEntry, error) {
	entries, err := v.entries.FindAllByOwner(ctx, userID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("error listing vault entries: %w", err)
	}

	return entries, nil
}

// RestoreEntry implements [VaultEntryService].
//
// Restoring clears the tombstone and advances the entry's version, so devices
// holding the pre-delete version observe the restore as a regular concurrent
// modification. An active or missing entry cannot be restored and yields
// store.ErrEntryNotFound.
func (v *vaultEntryService) RestoreEntry(ctx context.Context, entryID string, userID int64) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	restored, err := v.entries.Restore(ctx, entryID, userID, v.now())
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("error restoring vault entry: %w", err)
	}

	log.Info().
		Str("func", "vaultEntryService.RestoreEntry").
		Int64("user_id", userID).
		Str("entry_id", entryID).
		Int64("version", restored.Version).
		Msg("vault entry restored")

	return restored, nil
}

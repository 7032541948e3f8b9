package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/validators"
	"github.com/MKhiriev/go-vault-sync/models"
)

// maxUpdateAttempts bounds the re-read/re-resolve loop an UPDATE goes
// through when its conditional write loses the optimistic-lock race to a
// concurrent device. Each attempt re-reads the current server entry, so
// losing an attempt means another writer succeeded in the meantime.
const maxUpdateAttempts = 3

// syncService is the concrete implementation of [SyncService]: the
// orchestrator that drives one synchronization call from a batch of client
// changes to a single aggregated response.
//
// The service holds no mutable state between calls; each Synchronize
// invocation is independent aside from what is durably persisted. Concurrency
// correctness between devices rests entirely on the entry store's atomic
// version check at write time.
type syncService struct {
	entries   store.VaultEntryRepository
	resolver  ConflictResolver
	history   HistoryService
	ids       IDGenerator
	validator validators.Validator

	// now is injectable for tests; production wiring uses time.Now.
	now func() time.Time

	logger *logger.Logger
}

// NewSyncService constructs a [SyncService] wired to the given entry store,
// conflict resolver, history recorder, and ID generator.
func NewSyncService(
	entries store.VaultEntryRepository,
	resolver ConflictResolver,
	history HistoryService,
	ids IDGenerator,
	validator validators.Validator,
	logger *logger.Logger,
) SyncService {
	return &syncService{
		entries:   entries,
		resolver:  resolver,
		history:   history,
		ids:       ids,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

// Synchronize implements [SyncService].
//
// Changes are processed one at a time in submission order, but every change
// addresses a distinct entry, so no caller may rely on that order for
// correctness. Each change is structurally validated before it is applied;
// an invalid change is rejected without touching storage. Per-change failures
// (a malformed change, a missing target entry) reject only that change;
// conflicts are a modeled outcome and never fail the call. Only a
// store-level failure aborts the whole batch, and then no partial results
// are returned.
//
// The history recorder is invoked exactly once for every completed call,
// including a call with an empty change list, after all changes have been
// processed and before the response is returned.
func (s *syncService) Synchronize(ctx context.Context, request models.SyncRequest) (models.SyncResponse, error) {
	log := logger.FromContext(ctx)

	response := models.SyncResponse{}

	for _, change := range request.Changes {
		if err := s.validator.Validate(ctx, change); err != nil {
			response.Rejected = append(response.Rejected, models.RejectedChange{
				EntryID:   change.EntryID,
				Operation: change.Operation,
				Reason:    err.Error(),
			})
			continue
		}

		var err error

		switch change.Operation {
		case models.OpCreate:
			err = s.applyCreate(ctx, request.UserID, change, &response)
		case models.OpUpdate:
			err = s.applyUpdate(ctx, request.UserID, change, &response)
		case models.OpDelete:
			err = s.applyDelete(ctx, request.UserID, change, &response)
		default:
			response.Rejected = append(response.Rejected, models.RejectedChange{
				EntryID:   change.EntryID,
				Operation: change.Operation,
				Reason:    ErrUnknownOperation.Error(),
			})
		}

		if err != nil {
			log.Err(err).
				Str("func", "syncService.Synchronize").
				Int64("user_id", request.UserID).
				Str("entry_id", change.EntryID).
				Msg("synchronization aborted by storage failure")
			return models.SyncResponse{}, fmt.Errorf("synchronization failed: %w", err)
		}
	}

	response.Stats.TotalProcessed = len(request.Changes)
	response.ConflictCount = len(response.Conflicts)
	response.HasConflicts = response.ConflictCount > 0
	response.Success = true

	log.Info().
		Str("func", "syncService.Synchronize").
		Int64("user_id", request.UserID).
		Int("processed", response.Stats.TotalProcessed).
		Int("created", response.Stats.EntriesCreated).
		Int("updated", response.Stats.EntriesUpdated).
		Int("deleted", response.Stats.EntriesDeleted).
		Int("conflicts", response.ConflictCount).
		Int("rejected", len(response.Rejected)).
		Msg("synchronization completed")

	// Best-effort audit trail: Record never fails the sync.
	s.history.Record(ctx, request, response)

	return response, nil
}

// applyCreate stores a brand-new entry with version 1.
//
// A create can never conflict. When the client did not supply an entry ID a
// fresh one is allocated. Creates are deliberately not deduplicated by
// content or idempotency key: a client retrying a create after a dropped
// response produces a second, distinct entry.
func (s *syncService) applyCreate(ctx context.Context, userID int64, change models.ClientChange, response *models.SyncResponse) error {
	now := s.now()

	entryID := change.EntryID
	if entryID == "" {
		entryID = s.ids.Generate()
	}

	entry := models.VaultEntry{
		EntryID:    entryID,
		UserID:     userID,
		Ciphertext: change.Ciphertext,
		IV:         change.IV,
		AuthTag:    change.AuthTag,
		FolderID:   change.FolderID,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := s.entries.Create(ctx, entry); err != nil {
		return err
	}

	response.Stats.EntriesCreated++

	return nil
}

// applyUpdate runs one UPDATE change through conflict resolution and the
// store's optimistic conditional write.
//
// The read and the write are separated in time, so the store's version check
// at write time is authoritative: a zero-rows conditional write is treated
// exactly like a freshly detected conflict, and the change is re-read and
// re-resolved. The in-memory snapshot is never trusted to still be current.
func (s *syncService) applyUpdate(ctx context.Context, userID int64, change models.ClientChange, response *models.SyncResponse) error {
	log := logger.FromContext(ctx)

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		serverEntry, err := s.entries.FindActiveByID(ctx, change.EntryID, userID)
		if err != nil {
			if errors.Is(err, store.ErrEntryNotFound) {
				response.Rejected = append(response.Rejected, models.RejectedChange{
					EntryID:   change.EntryID,
					Operation: change.Operation,
					Reason:    store.ErrEntryNotFound.Error(),
				})
				return nil
			}
			return err
		}

		decision := s.resolver.Resolve(serverEntry, change)

		var detail models.ConflictDetail
		if decision.HasConflict {
			detail = models.ConflictDetail{
				EntityType:    decision.EntityType,
				EntityID:      decision.EntityID,
				Resolution:    decision.Resolution,
				ServerVersion: serverEntry.Version,
			}
			if change.BaseVersion != nil {
				detail.ClientVersion = *change.BaseVersion
			}

			if decision.Resolution == models.ResolutionServerWins {
				// The server entry stays untouched; the client's proposed
				// change is discarded and reported back with the decision.
				response.Conflicts = append(response.Conflicts, detail)
				return nil
			}
		}

		updated := serverEntry
		updated.Ciphertext = change.Ciphertext
		updated.IV = change.IV
		updated.AuthTag = change.AuthTag
		if change.FolderID != nil {
			updated.FolderID = change.FolderID
		}
		updated.UpdatedAt = s.now()

		_, err = s.entries.UpdateWithVersion(ctx, updated, serverEntry.Version)
		if err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				// Lost the race between read and write: another device
				// committed first. Re-read and re-resolve.
				log.Debug().
					Str("func", "syncService.applyUpdate").
					Str("entry_id", change.EntryID).
					Int("attempt", attempt+1).
					Msg("conditional write lost optimistic-lock race, retrying through conflict path")
				continue
			}
			if errors.Is(err, store.ErrEntryNotFound) {
				// The entry was deleted between the read and the write.
				response.Rejected = append(response.Rejected, models.RejectedChange{
					EntryID:   change.EntryID,
					Operation: change.Operation,
					Reason:    store.ErrEntryNotFound.Error(),
				})
				return nil
			}
			return err
		}

		if decision.HasConflict {
			response.Conflicts = append(response.Conflicts, detail)
		}
		response.Stats.EntriesUpdated++

		return nil
	}

	response.Rejected = append(response.Rejected, models.RejectedChange{
		EntryID:   change.EntryID,
		Operation: change.Operation,
		Reason:    ErrTooManyWriteConflicts.Error(),
	})

	return nil
}

// applyDelete soft-deletes an active entry.
//
// Deletion does not go through last-write-wins resolution: once the
// precondition "entry exists and is active" holds, the delete is
// unconditional. A missing or already-deleted entry rejects the change.
func (s *syncService) applyDelete(ctx context.Context, userID int64, change models.ClientChange, response *models.SyncResponse) error {
	err := s.entries.SoftDelete(ctx, change.EntryID, userID, s.now())
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			response.Rejected = append(response.Rejected, models.RejectedChange{
				EntryID:   change.EntryID,
				Operation: change.Operation,
				Reason:    store.ErrEntryNotFound.Error(),
			})
			return nil
		}
		return err
	}

	response.Stats.EntriesDeleted++

	return nil
}

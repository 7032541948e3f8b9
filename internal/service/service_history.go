package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
)

// historyService is the concrete implementation of [HistoryService].
type historyService struct {
	records store.SyncHistoryRepository

	// now is injectable for tests; production wiring uses time.Now.
	now func() time.Time

	logger *logger.Logger
}

// NewHistoryService constructs a [HistoryService] backed by the given
// append-only record store.
func NewHistoryService(records store.SyncHistoryRepository, logger *logger.Logger) HistoryService {
	return &historyService{
		records: records,
		now:     time.Now,
		logger:  logger,
	}
}

// Record implements [HistoryService].
//
// The record's status distinguishes clean syncs from syncs-with-conflicts
// even though both are successful for the client-facing contract: auditors
// care about the difference, clients do not.
//
// Recording is outside the sync call's atomicity boundary. If the append
// fails the error is logged and dropped; availability of synchronization
// wins over completeness of the audit trail.
func (h *historyService) Record(ctx context.Context, request models.SyncRequest, response models.SyncResponse) {
	log := logger.FromContext(ctx)

	status := models.SyncStatusSuccess
	if response.ConflictCount > 0 {
		status = models.SyncStatusConflict
	}

	record := models.SyncRecord{
		UserID:        request.UserID,
		ClientVersion: request.ClientVersion,
		Status:        status,
		Success:       response.Success,
		Processed:     response.Stats.TotalProcessed,
		Created:       response.Stats.EntriesCreated,
		Updated:       response.Stats.EntriesUpdated,
		Deleted:       response.Stats.EntriesDeleted,
		Conflicts:     response.ConflictCount,
		ClientIP:      request.ClientIP,
		UserAgent:     request.UserAgent,
		CreatedAt:     h.now(),
	}

	if err := h.records.Append(ctx, record); err != nil {
		log.Err(err).
			Str("func", "historyService.Record").
			Int64("user_id", request.UserID).
			Msg("failed to append sync history record, continuing without audit entry")
	}
}

// ListHistory implements [HistoryService].
func (h *historyService) ListHistory(ctx context.Context, userID int64, limit, offset int) ([]models.SyncRecord, error) {
	return h.records.FindByOwner(ctx, userID, limit, offset)
}

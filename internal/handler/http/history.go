package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listHistory").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	records, err := h.services.HistoryService.ListHistory(ctx, userID, limit, offset)
	if err != nil {
		log.Error().Str("func", "*Handler.listHistory").Msg("error listing sync history")
		http.Error(w, "error listing sync history", statusFromError(err))
		return
	}
	if records == nil {
		records = []models.SyncRecord{}
	}

	utils.WriteJSON(w, records, http.StatusOK)
}

// queryInt parses an integer query parameter. Absent or malformed values
// yield zero; the storage layer applies its own defaults.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}

	return value
}

package http

import (
	"net/http"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	h.writeEntries(w, r, false)
}

func (h *Handler) listAllEntries(w http.ResponseWriter, r *http.Request) {
	h.writeEntries(w, r, true)
}

func (h *Handler) writeEntries(w http.ResponseWriter, r *http.Request, includeDeleted bool) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.writeEntries").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	entries, err := h.services.VaultEntryService.ListEntries(ctx, userID, includeDeleted)
	if err != nil {
		log.Error().Str("func", "*Handler.writeEntries").Msg("error listing vault entries")
		http.Error(w, "error listing vault entries", statusFromError(err))
		return
	}
	if entries == nil {
		entries = []models.VaultEntry{}
	}

	utils.WriteJSON(w, entries, http.StatusOK)
}

func (h *Handler) restoreEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.restoreEntry").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	entryID := chi.URLParam(r, "entryID")
	if entryID == "" {
		log.Error().Str("func", "*Handler.restoreEntry").Msg("no entry ID was given")
		http.Error(w, "no entry ID was given", http.StatusBadRequest)
		return
	}

	restored, err := h.services.VaultEntryService.RestoreEntry(ctx, entryID, userID)
	if err != nil {
		log.Error().Str("func", "*Handler.restoreEntry").Str("entry_id", entryID).Msg("error restoring vault entry")
		http.Error(w, "error restoring vault entry", statusFromError(err))
		return
	}

	utils.WriteJSON(w, restored, http.StatusOK)
}

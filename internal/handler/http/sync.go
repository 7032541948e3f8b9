package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

func (h *Handler) synchronize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.synchronize").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var syncRequest models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&syncRequest); err != nil {
		log.Err(err).Str("func", "*Handler.synchronize").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// Identity and call metadata come from the authenticated request, never
	// from the request body.
	syncRequest.UserID = userID
	syncRequest.ClientIP = clientIP(r)
	syncRequest.UserAgent = r.UserAgent()

	syncResponse, err := h.services.SyncService.Synchronize(ctx, syncRequest)
	if err != nil {
		log.Error().Str("func", "*Handler.synchronize").Msg("error synchronizing vault entries")
		http.Error(w, "error synchronizing vault entries", statusFromError(err))
		return
	}

	utils.WriteJSON(w, syncResponse, http.StatusOK)
}

// clientIP prefers the X-Real-IP header set by a reverse proxy and falls back
// to the connection's remote address.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

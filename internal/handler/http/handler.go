package http

import (
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/service"
)

// Handler carries the service layer into the REST endpoints. One instance
// serves all routes; per-request state lives in the request context.
type Handler struct {
	services *service.Services

	logger *logger.Logger
}

// NewHandler constructs the REST handler over the given services.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

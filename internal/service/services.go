package service

import (
	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/internal/validators"
)

// Services aggregates every server-side service behind one struct so the
// handler layer takes a single dependency.
type Services struct {
	AuthService       AuthService
	SyncService       SyncService
	HistoryService    HistoryService
	VaultEntryService VaultEntryService
}

// NewServices wires all services to their repositories and configuration.
func NewServices(storages store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	resolver := NewConflictResolver()
	history := NewHistoryService(storages.SyncHistoryRepository, logger)

	return &Services{
		AuthService:       NewAuthService(storages.UserRepository, cfg.Auth, logger),
		SyncService:       NewSyncService(storages.VaultEntryRepository, resolver, history, utils.NewUUIDGenerator(), validators.NewClientChangeValidator(), logger),
		HistoryService:    history,
		VaultEntryService: NewVaultEntryService(storages.VaultEntryRepository, logger),
	}
}

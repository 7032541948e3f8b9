package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
)

// Storages aggregates all repository implementations behind their interfaces
// so that the service layer receives one wired dependency bundle.
type Storages struct {
	VaultEntryRepository  VaultEntryRepository
	SyncHistoryRepository SyncHistoryRepository
	UserRepository        UserRepository
}

// NewStorages connects to PostgreSQL, applies pending migrations, and wires
// all repositories onto the shared connection.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		log.Err(err).Msg("connection to database failed")
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		log.Err(err).Msg("applying migrations failed")
		return nil, fmt.Errorf("applying migrations failed: %w", err)
	}

	return &Storages{
		VaultEntryRepository:  NewVaultEntryRepository(db, log),
		SyncHistoryRepository: NewSyncHistoryRepository(db, log),
		UserRepository:        NewUserRepository(db, log),
	}, nil
}

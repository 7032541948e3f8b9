// Package adapter provides transport-layer abstractions for communicating
// with the vault-sync server.
//
// The primary abstraction is [ServerAdapter], which decouples client-side
// callers from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the vault-sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Register or Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register sends a registration request with the provided credentials.
	// On success it stores the returned bearer token via SetToken.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates the user. On success it stores the returned bearer
	// token via SetToken.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// Synchronize pushes a batch of local changes and returns the server's
	// aggregated response, including conflict decisions and rejections.
	Synchronize(ctx context.Context, request models.SyncRequest) (models.SyncResponse, error)

	// ListEntries fetches the caller's vault entries. With includeDeleted
	// set, tombstoned entries are returned as well.
	ListEntries(ctx context.Context, includeDeleted bool) ([]models.VaultEntry, error)

	// RestoreEntry clears the tombstone of a soft-deleted entry and returns
	// the restored entry.
	RestoreEntry(ctx context.Context, entryID string) (models.VaultEntry, error)

	// History fetches the caller's synchronization audit records, newest
	// first. Non-positive limit and offset are left to server defaults.
	History(ctx context.Context, limit, offset int) ([]models.SyncRecord, error)
}

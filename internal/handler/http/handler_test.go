package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/mock"
	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers shared by the handler tests in this package
// ─────────────────────────────────────────────────────────────────────────────

// errSigningFailed stands in for an unexpected internal failure in tests.
var errSigningFailed = errors.New("signing failed")

// testMocks bundles the gomock service doubles wired into the handler under
// test.
type testMocks struct {
	auth    *mock.MockAuthService
	sync    *mock.MockSyncService
	history *mock.MockHistoryService
	entries *mock.MockVaultEntryService
}

func newTestHandler(t *testing.T) (*Handler, testMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mocks := testMocks{
		auth:    mock.NewMockAuthService(ctrl),
		sync:    mock.NewMockSyncService(ctrl),
		history: mock.NewMockHistoryService(ctrl),
		entries: mock.NewMockVaultEntryService(ctrl),
	}

	h := &Handler{
		logger: logger.Nop(),
		services: &service.Services{
			AuthService:       mocks.auth,
			SyncService:       mocks.sync,
			HistoryService:    mocks.history,
			VaultEntryService: mocks.entries,
		},
	}

	return h, mocks
}

// injectNopLogger puts a nop logger into the request context so that handlers
// calling logger.FromRequest stay silent during tests.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	ctx := nop.Logger.WithContext(r.Context())
	return r.WithContext(ctx)
}

// withUserID simulates the auth middleware by storing an authenticated user
// ID in the request context.
func withUserID(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, userID)
	return r.WithContext(ctx)
}

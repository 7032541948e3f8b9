package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func executeList(h http.HandlerFunc, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/vault/entries", nil)
	req = injectNopLogger(req)
	if userID != 0 {
		req = withUserID(req, userID)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestListEntries_Success(t *testing.T) {
	h, mocks := newTestHandler(t)

	now := time.Now().Truncate(time.Second).UTC()
	entries := []models.VaultEntry{
		{EntryID: "entry-1", UserID: 42, Version: 3, CreatedAt: now, UpdatedAt: now},
		{EntryID: "entry-2", UserID: 42, Version: 1, CreatedAt: now, UpdatedAt: now},
	}

	mocks.entries.EXPECT().
		ListEntries(gomock.Any(), int64(42), false).
		Return(entries, nil)

	rr := executeList(h.listEntries, 42)

	require.Equal(t, http.StatusOK, rr.Code)

	var got []models.VaultEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "entry-1", got[0].EntryID)
}

func TestListAllEntries_IncludesDeleted(t *testing.T) {
	h, mocks := newTestHandler(t)

	mocks.entries.EXPECT().
		ListEntries(gomock.Any(), int64(42), true).
		Return([]models.VaultEntry{{EntryID: "tombstone-1"}}, nil)

	rr := executeList(h.listAllEntries, 42)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tombstone-1")
}

func TestListEntries_EmptyVaultReturnsEmptyArray(t *testing.T) {
	h, mocks := newTestHandler(t)

	mocks.entries.EXPECT().
		ListEntries(gomock.Any(), int64(42), false).
		Return(nil, nil)

	rr := executeList(h.listEntries, 42)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListEntries_NoUserID(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := executeList(h.listEntries, 0)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListEntries_StorageFailure(t *testing.T) {
	h, mocks := newTestHandler(t)

	mocks.entries.EXPECT().
		ListEntries(gomock.Any(), int64(42), false).
		Return(nil, store.ErrExecutingQuery)

	rr := executeList(h.listEntries, 42)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func executeRestore(h *Handler, entryID string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/vault/entries/"+entryID+"/restore", nil)
	req = injectNopLogger(req)
	if userID != 0 {
		req = withUserID(req, userID)
	}

	// chi stores URL params in the route context.
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("entryID", entryID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	h.restoreEntry(rr, req)
	return rr
}

func TestRestoreEntry_Success(t *testing.T) {
	h, mocks := newTestHandler(t)

	restored := models.VaultEntry{EntryID: "entry-1", UserID: 42, Version: 4}
	mocks.entries.EXPECT().
		RestoreEntry(gomock.Any(), "entry-1", int64(42)).
		Return(restored, nil)

	rr := executeRestore(h, "entry-1", 42)

	require.Equal(t, http.StatusOK, rr.Code)

	var got models.VaultEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "entry-1", got.EntryID)
	assert.Equal(t, int64(4), got.Version)
}

func TestRestoreEntry_NotFound(t *testing.T) {
	h, mocks := newTestHandler(t)

	mocks.entries.EXPECT().
		RestoreEntry(gomock.Any(), "ghost", int64(42)).
		Return(models.VaultEntry{}, store.ErrEntryNotFound)

	rr := executeRestore(h, "ghost", 42)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRestoreEntry_NoUserID(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := executeRestore(h, "entry-1", 0)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

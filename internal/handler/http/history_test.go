package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func executeHistory(h *Handler, target string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = injectNopLogger(req)
	if userID != 0 {
		req = withUserID(req, userID)
	}
	rr := httptest.NewRecorder()
	h.listHistory(rr, req)
	return rr
}

func TestListHistory_Success(t *testing.T) {
	h, mocks := newTestHandler(t)

	records := []models.SyncRecord{
		{ID: 2, UserID: 42, Status: models.SyncStatusSuccess},
		{ID: 1, UserID: 42, Status: models.SyncStatusConflict},
	}

	mocks.history.EXPECT().
		ListHistory(gomock.Any(), int64(42), 10, 5).
		Return(records, nil)

	rr := executeHistory(h, "/api/vault/history?limit=10&offset=5", 42)

	require.Equal(t, http.StatusOK, rr.Code)

	var got []models.SyncRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestListHistory_NoRecordsReturnsEmptyArray(t *testing.T) {
	h, mocks := newTestHandler(t)

	mocks.history.EXPECT().
		ListHistory(gomock.Any(), int64(42), 0, 0).
		Return(nil, nil)

	rr := executeHistory(h, "/api/vault/history", 42)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListHistory_NoUserID(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := executeHistory(h, "/api/vault/history", 0)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListHistory_StorageFailure(t *testing.T) {
	h, mocks := newTestHandler(t)

	mocks.history.EXPECT().
		ListHistory(gomock.Any(), int64(42), 0, 0).
		Return(nil, store.ErrExecutingQuery)

	rr := executeHistory(h, "/api/vault/history", 42)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestQueryInt_TableTest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		param  string
		want   int
	}{
		{name: "valid integer", target: "/?limit=25", param: "limit", want: 25},
		{name: "absent parameter", target: "/", param: "limit", want: 0},
		{name: "malformed value", target: "/?limit=abc", param: "limit", want: 0},
		{name: "negative value passes through", target: "/?offset=-5", param: "offset", want: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.want, queryInt(req, tt.param))
		})
	}
}

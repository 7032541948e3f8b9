package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedTestToken produces a well-formed JWT whose subject is the given user
// ID. The adapter only parses it unverified, so the signing key is arbitrary.
func signedTestToken(t *testing.T, userID string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)

	return signed
}

func newAdapterForServer(server *httptest.Server) ServerAdapter {
	return NewHTTPServerAdapter(HTTPClientConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
}

func TestHTTPServerAdapter_Register(t *testing.T) {
	token := signedTestToken(t, "42")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/user/register", r.URL.Path)

		var user models.User
		require.NoError(t, json.NewDecoder(r.Body).Decode(&user))
		assert.Equal(t, "alice", user.Login)
		assert.Equal(t, "secret", user.Password)

		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newAdapterForServer(server)

	registered, err := client.Register(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), registered.UserID)
	assert.Equal(t, "alice", registered.Login)
	assert.Equal(t, token, client.Token())
}

func TestHTTPServerAdapter_Login(t *testing.T) {
	token := signedTestToken(t, "7")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/login", r.URL.Path)
		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newAdapterForServer(server)

	got, err := client.Login(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, token, got.SignedString)
	assert.Equal(t, token, client.Token())
}

func TestHTTPServerAdapter_Login_WrongPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid login/password", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newAdapterForServer(server)

	_, err := client.Login(context.Background(), models.User{Login: "alice", Password: "bad"})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, client.Token())
}

func TestHTTPServerAdapter_Synchronize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vault/sync", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))

		var request models.SyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		require.Len(t, request.Changes, 1)
		assert.Equal(t, models.OpDelete, request.Changes[0].Operation)

		response := models.SyncResponse{
			Success: true,
			Stats:   models.SyncStats{TotalProcessed: 1, EntriesDeleted: 1},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	defer server.Close()

	client := newAdapterForServer(server)
	client.SetToken("session-token")

	response, err := client.Synchronize(context.Background(), models.SyncRequest{
		Changes: []models.ClientChange{{EntryID: "entry-1", Operation: models.OpDelete}},
	})

	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, 1, response.Stats.EntriesDeleted)
}

func TestHTTPServerAdapter_ListEntries_PathSelection(t *testing.T) {
	var requestedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"entry_id":"entry-1"}]`))
	}))
	defer server.Close()

	client := newAdapterForServer(server)
	client.SetToken("session-token")

	entries, err := client.ListEntries(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "/api/vault/entries", requestedPath)
	require.Len(t, entries, 1)

	_, err = client.ListEntries(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "/api/vault/entries/all", requestedPath)
}

func TestHTTPServerAdapter_RestoreEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vault/entries/entry-1/restore", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entry_id":"entry-1","version":4}`))
	}))
	defer server.Close()

	client := newAdapterForServer(server)
	client.SetToken("session-token")

	entry, err := client.RestoreEntry(context.Background(), "entry-1")

	require.NoError(t, err)
	assert.Equal(t, "entry-1", entry.EntryID)
	assert.Equal(t, int64(4), entry.Version)
}

func TestHTTPServerAdapter_History_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vault/history", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"status":"success"}]`))
	}))
	defer server.Close()

	client := newAdapterForServer(server)
	client.SetToken("session-token")

	records, err := client.History(context.Background(), 10, 20)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.SyncStatusSuccess, records[0].Status)
}

func TestMapHTTPError_TableTest(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "400 → bad request", status: http.StatusBadRequest, wantErr: ErrBadRequest},
		{name: "401 → unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "404 → not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "409 → conflict", status: http.StatusConflict, wantErr: ErrConflict},
		{name: "500 → internal", status: http.StatusInternalServerError, wantErr: ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "failure detail", tt.status)
			}))
			defer server.Close()

			client := newAdapterForServer(server)
			client.SetToken("session-token")

			_, err := client.ListEntries(context.Background(), false)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHTTPServerAdapter_SetTokenTrimsWhitespace(t *testing.T) {
	client := NewHTTPServerAdapter(HTTPClientConfig{})

	client.SetToken("  padded-token \n")

	assert.Equal(t, "padded-token", client.Token())
}

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers shared by the repository tests in this package
// ─────────────────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL wraps an existing *sql.DB for tests.
func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
}

func newTestEntryRepo(t *testing.T, db *sql.DB) VaultEntryRepository {
	t.Helper()
	return NewVaultEntryRepository(newDBFromSQL(db), logger.Nop())
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

type vaultEntryRow struct {
	entryID    string
	userID     int64
	ciphertext []byte
	iv         []byte
	authTag    []byte
	version    int64
	folderID   driver.Value // *string or nil
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  driver.Value // *time.Time or nil
}

func (r vaultEntryRow) toValues() []driver.Value {
	return []driver.Value{
		r.entryID, r.userID, r.ciphertext, r.iv, r.authTag,
		r.version, r.folderID, r.createdAt, r.updatedAt, r.deletedAt,
	}
}

func activeRow(entryID string, userID, version int64, at time.Time) vaultEntryRow {
	return vaultEntryRow{
		entryID:    entryID,
		userID:     userID,
		ciphertext: []byte("ciphertext"),
		iv:         []byte("iv"),
		authTag:    []byte("tag"),
		version:    version,
		createdAt:  at,
		updatedAt:  at,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// FindActiveByID
// ─────────────────────────────────────────────────────────────────────────────

func TestVaultEntryRepository_FindActiveByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	now := time.Now().Truncate(time.Millisecond)
	row := activeRow("entry-1", 42, 3, now)

	mock.ExpectQuery(regexp.QuoteMeta(findActiveEntryByID)).
		WithArgs("entry-1", int64(42)).
		WillReturnRows(sqlmock.NewRows(vaultEntryColumns).AddRow(row.toValues()...))

	entry, err := repo.FindActiveByID(testContext(), "entry-1", 42)

	require.NoError(t, err)
	assert.Equal(t, "entry-1", entry.EntryID)
	assert.Equal(t, int64(42), entry.UserID)
	assert.Equal(t, int64(3), entry.Version)
	assert.Nil(t, entry.DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultEntryRepository_FindActiveByID_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(findActiveEntryByID)).
		WithArgs("ghost", int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByID(testContext(), "ghost", 42)

	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAllByOwner
// ─────────────────────────────────────────────────────────────────────────────

func TestVaultEntryRepository_FindAllByOwner(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	now := time.Now().Truncate(time.Millisecond)
	first := activeRow("entry-1", 42, 1, now)
	second := activeRow("entry-2", 42, 4, now)

	query, _, err := buildFindAllByOwnerQuery(42, false)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(vaultEntryColumns).
			AddRow(first.toValues()...).
			AddRow(second.toValues()...))

	entries, err := repo.FindAllByOwner(testContext(), 42, false)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-1", entries[0].EntryID)
	assert.Equal(t, "entry-2", entries[1].EntryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultEntryRepository_FindAllByOwner_IncludeDeleted(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	now := time.Now().Truncate(time.Millisecond)
	deleted := activeRow("entry-1", 42, 2, now)
	deletedAt := now.Add(-time.Hour)
	deleted.deletedAt = &deletedAt

	query, _, err := buildFindAllByOwnerQuery(42, true)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(vaultEntryColumns).AddRow(deleted.toValues()...))

	entries, err := repo.FindAllByOwner(testContext(), 42, true)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].DeletedAt)
	assert.False(t, entries[0].Active())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultEntryRepository_FindAllByOwner_Empty(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	query, _, err := buildFindAllByOwnerQuery(42, false)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(vaultEntryColumns))

	entries, err := repo.FindAllByOwner(testContext(), 42, false)

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestVaultEntryRepository_Create(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	now := time.Now().Truncate(time.Millisecond)
	entry := models.VaultEntry{
		EntryID:    "entry-1",
		UserID:     42,
		Ciphertext: []byte("ciphertext"),
		IV:         []byte("iv"),
		AuthTag:    []byte("tag"),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectExec(regexp.QuoteMeta(insertVaultEntry)).
		WithArgs(
			entry.EntryID, entry.UserID, entry.Ciphertext, entry.IV,
			entry.AuthTag, entry.Version, nil, entry.CreatedAt, entry.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(testContext(), entry)

	require.NoError(t, err)
	assert.Equal(t, entry, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultEntryRepository_Create_ExecError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta(insertVaultEntry)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(testContext(), models.VaultEntry{EntryID: "entry-1", UserID: 42})

	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateWithVersion: the three CTE outcomes
// ─────────────────────────────────────────────────────────────────────────────

var conditionalUpdateColumns = []string{"entry_id", "version", "new_version"}

func TestVaultEntryRepository_UpdateWithVersion_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	now := time.Now().Truncate(time.Millisecond)
	entry := models.VaultEntry{
		EntryID:    "entry-1",
		UserID:     42,
		Ciphertext: []byte("new-ciphertext"),
		IV:         []byte("new-iv"),
		AuthTag:    []byte("new-tag"),
		UpdatedAt:  now,
	}

	mock.ExpectQuery(regexp.QuoteMeta(updateEntryWithVersion)).
		WithArgs(
			entry.EntryID, entry.UserID, entry.Ciphertext, entry.IV,
			entry.AuthTag, nil, entry.UpdatedAt, int64(3),
		).
		WillReturnRows(sqlmock.NewRows(conditionalUpdateColumns).
			AddRow("entry-1", int64(3), int64(4)))

	updated, err := repo.UpdateWithVersion(testContext(), entry, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Row found but the version check failed: the row comes back with a NULL
// updated ID and the current database version.
func TestVaultEntryRepository_UpdateWithVersion_VersionConflict(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(updateEntryWithVersion)).
		WillReturnRows(sqlmock.NewRows(conditionalUpdateColumns).
			AddRow(nil, int64(5), nil))

	_, err := repo.UpdateWithVersion(testContext(), models.VaultEntry{EntryID: "entry-1", UserID: 42}, 3)

	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Zero result rows: no active entry exists at all.
func TestVaultEntryRepository_UpdateWithVersion_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(updateEntryWithVersion)).
		WillReturnRows(sqlmock.NewRows(conditionalUpdateColumns))

	_, err := repo.UpdateWithVersion(testContext(), models.VaultEntry{EntryID: "ghost", UserID: 42}, 3)

	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// SoftDelete / Restore / PurgeDeletedBefore
// ─────────────────────────────────────────────────────────────────────────────

func TestVaultEntryRepository_SoftDelete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	at := time.Now().Truncate(time.Millisecond)

	mock.ExpectExec(regexp.QuoteMeta(softDeleteEntry)).
		WithArgs("entry-1", int64(42), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SoftDelete(testContext(), "entry-1", 42, at)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A missing or already-tombstoned entry affects zero rows.
func TestVaultEntryRepository_SoftDelete_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	at := time.Now().Truncate(time.Millisecond)

	mock.ExpectExec(regexp.QuoteMeta(softDeleteEntry)).
		WithArgs("ghost", int64(42), at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(testContext(), "ghost", 42, at)

	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultEntryRepository_Restore(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	at := time.Now().Truncate(time.Millisecond)
	restored := activeRow("entry-1", 42, 3, at)

	mock.ExpectQuery(regexp.QuoteMeta(restoreEntry)).
		WithArgs("entry-1", int64(42), at).
		WillReturnRows(sqlmock.NewRows(vaultEntryColumns).AddRow(restored.toValues()...))

	entry, err := repo.Restore(testContext(), "entry-1", 42, at)

	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.Version)
	assert.Nil(t, entry.DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Restore targets only tombstoned rows; an active entry is not a candidate.
func TestVaultEntryRepository_Restore_NotDeleted(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	at := time.Now().Truncate(time.Millisecond)

	mock.ExpectQuery(regexp.QuoteMeta(restoreEntry)).
		WithArgs("entry-1", int64(42), at).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Restore(testContext(), "entry-1", 42, at)

	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The purge cutoff is exclusive: only rows with deleted_at strictly before
// the cutoff are removed, so an entry deleted exactly at the cutoff instant
// survives until the next pass.
func TestVaultEntryRepository_PurgeDeletedBefore_CutoffIsExclusive(t *testing.T) {
	assert.Contains(t, purgeDeletedEntries, "deleted_at < $1")
	assert.NotContains(t, purgeDeletedEntries, "deleted_at <= $1")
}

func TestVaultEntryRepository_PurgeDeletedBefore(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	cutoff := time.Now().Truncate(time.Millisecond)

	mock.ExpectExec(regexp.QuoteMeta(purgeDeletedEntries)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	purged, err := repo.PurgeDeletedBefore(testContext(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(7), purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultEntryRepository_PurgeDeletedBefore_Nothing(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestEntryRepo(t, db)

	cutoff := time.Now().Truncate(time.Millisecond)

	mock.ExpectExec(regexp.QuoteMeta(purgeDeletedEntries)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 0))

	purged, err := repo.PurgeDeletedBefore(testContext(), cutoff)

	require.NoError(t, err)
	assert.Zero(t, purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same login already exists in the database.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrEntryNotFound is returned when a query or mutation targets a vault
	// entry (identified by entry_id and user_id) that does not exist, or
	// for operations requiring an active entry, exists only as a tombstone.
	ErrEntryNotFound = errors.New("vault entry was not found")

	// ErrEntryNotSaved is returned when an INSERT of a vault entry completes
	// without error but the number of affected rows is zero, indicating that
	// no data was actually persisted.
	ErrEntryNotSaved = errors.New("vault entry was not saved")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the expected version supplied by the caller does not match the current
	// version stored in the database, meaning another device has modified
	// the entry since the caller last read it.
	ErrVersionConflict = errors.New("vault entry version conflict occurred")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)

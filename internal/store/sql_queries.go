package store

import (
	sq "github.com/Masterminds/squirrel"
)

// vaultEntryColumns is the canonical column order used by every vault-entry
// SELECT and its row-scanning counterpart.
var vaultEntryColumns = []string{
	"entry_id", "user_id", "ciphertext", "iv", "auth_tag",
	"version", "folder_id", "created_at", "updated_at", "deleted_at",
}

const (
	findActiveEntryByID = `SELECT entry_id, user_id, ciphertext, iv, auth_tag, version, folder_id, created_at, updated_at, deleted_at
		FROM vault_entries
		WHERE entry_id = $1 AND user_id = $2 AND deleted_at IS NULL;`

	insertVaultEntry = `INSERT INTO vault_entries (
			entry_id,
			user_id,
			ciphertext,
			iv,
			auth_tag,
			version,
			folder_id,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	// updateEntryWithVersion is the optimistic-locking conditional write.
	//
	// The CTE reads the current row first (target_record) and attempts the
	// conditional UPDATE in the same statement (updated_record), so one round
	// trip distinguishes three outcomes:
	//   - zero result rows            → no active entry (not found)
	//   - updated entry_id IS NULL    → entry exists but version mismatched
	//   - updated entry_id present    → write accepted, version incremented
	updateEntryWithVersion = `WITH target_record AS (
			SELECT entry_id, version
			FROM vault_entries
			WHERE entry_id = $1 AND user_id = $2 AND deleted_at IS NULL
		),
		updated_record AS (
			UPDATE vault_entries
			SET ciphertext = $3,
				iv = $4,
				auth_tag = $5,
				folder_id = COALESCE($6, folder_id),
				version = version + 1,
				updated_at = $7
			WHERE entry_id = $1 AND user_id = $2 AND deleted_at IS NULL AND version = $8
			RETURNING entry_id, version
		)
		SELECT updated_record.entry_id, target_record.version, updated_record.version
		FROM target_record
		LEFT JOIN updated_record ON updated_record.entry_id = target_record.entry_id;`

	softDeleteEntry = `UPDATE vault_entries
		SET deleted_at = $3, updated_at = $3, version = version + 1
		WHERE entry_id = $1 AND user_id = $2 AND deleted_at IS NULL;`

	restoreEntry = `UPDATE vault_entries
		SET deleted_at = NULL, updated_at = $3, version = version + 1
		WHERE entry_id = $1 AND user_id = $2 AND deleted_at IS NOT NULL
		RETURNING entry_id, user_id, ciphertext, iv, auth_tag, version, folder_id, created_at, updated_at, deleted_at;`

	// The cutoff is exclusive: an entry deleted exactly at $1 is retained
	// until the next purge pass.
	purgeDeletedEntries = `DELETE FROM vault_entries
		WHERE deleted_at IS NOT NULL AND deleted_at < $1;`

	insertSyncRecord = `INSERT INTO sync_history (
			user_id,
			client_version,
			status,
			success,
			processed,
			created,
			updated,
			deleted,
			conflicts,
			client_ip,
			user_agent,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	createUser = `INSERT INTO users (login, password_hash)
		VALUES ($1, $2)
		RETURNING user_id, login, password_hash, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, created_at
		FROM users
		WHERE login = $1;`
)

// buildFindAllByOwnerQuery assembles the owner-scoped entry listing query.
// The deleted-entry filter is added only when includeDeleted is false, so the
// same builder serves both the active view and the full (audit) view.
func buildFindAllByOwnerQuery(userID int64, includeDeleted bool) (string, []any, error) {
	builder := sq.Select(vaultEntryColumns...).
		From("vault_entries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at").
		PlaceholderFormat(sq.Dollar)

	if !includeDeleted {
		builder = builder.Where(sq.Eq{"deleted_at": nil})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, ErrBuildingSQLQuery
	}

	return query, args, nil
}

// buildFindSyncRecordsQuery assembles the paginated history listing query,
// newest records first. A non-positive limit falls back to 50.
func buildFindSyncRecordsQuery(userID int64, limit, offset int) (string, []any, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	builder := sq.Select(
		"id", "user_id", "client_version", "status", "success",
		"processed", "created", "updated", "deleted", "conflicts",
		"client_ip", "user_agent", "created_at",
	).
		From("sync_history").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, ErrBuildingSQLQuery
	}

	return query, args, nil
}

package models

import "time"

// VaultEntry is the server-of-record state of a single vault item.
// The encrypted payload (Ciphertext, IV, AuthTag) is produced entirely on the
// client and is opaque to the server: it is stored, versioned, and shipped
// back to devices, but never decrypted or inspected.
type VaultEntry struct {
	// EntryID is the unique identifier of the entry (UUID string).
	EntryID string `json:"entry_id"`

	// UserID is the owner of this entry. Every storage operation is scoped
	// by UserID; cross-owner access is never permitted.
	UserID int64 `json:"user_id"`

	// Ciphertext is the AES-GCM encrypted payload produced by the client.
	Ciphertext []byte `json:"ciphertext"`

	// IV is the initialization vector the client used for encryption.
	IV []byte `json:"iv"`

	// AuthTag is the GCM authentication tag for the payload.
	AuthTag []byte `json:"auth_tag"`

	// Version is a monotonically increasing counter, starting at 1 on
	// creation and incremented by exactly 1 on every accepted mutation.
	// It is the optimistic-locking token for concurrent device writes.
	Version int64 `json:"version"`

	// FolderID is an optional reference to a folder owned by the same user.
	FolderID *string `json:"folder_id,omitempty"`

	// CreatedAt is set once when the entry is first stored.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last accepted mutation.
	// It advances together with Version and only together with it.
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt is the soft-delete tombstone. A non-nil value excludes the
	// entry from active queries; the row is kept until the retention purge.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Active reports whether the entry is visible to normal vault operations,
// i.e. it has not been soft-deleted.
func (e *VaultEntry) Active() bool {
	return e.DeletedAt == nil
}

// TableName returns the name of the database table
// associated with the VaultEntry model.
func (e *VaultEntry) TableName() string {
	return "vault_entries"
}

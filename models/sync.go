package models

import "time"

// ChangeOperation enumerates the mutation kinds a client may propose
// during synchronization.
type ChangeOperation string

const (
	OpCreate ChangeOperation = "CREATE"
	OpUpdate ChangeOperation = "UPDATE"
	OpDelete ChangeOperation = "DELETE"
)

// Resolution names the winning side of a resolved conflict.
type Resolution string

const (
	// ResolutionNone means no conflict was detected for the change.
	ResolutionNone Resolution = "NONE"

	// ResolutionClientWins means the client's payload overwrote the server
	// entry because the client's edit carried a strictly later timestamp.
	ResolutionClientWins Resolution = "CLIENT_WINS"

	// ResolutionServerWins means the server entry was kept and the client's
	// proposed change was discarded. Timestamp ties resolve this way: the
	// server is authoritative on ties.
	ResolutionServerWins Resolution = "SERVER_WINS"
)

// ClientChange is one mutation proposed by a device during a sync call.
// It is transient: it lives only for the duration of one Synchronize call.
type ClientChange struct {
	// EntryID identifies the target entry. Empty for CREATE, in which case
	// the server allocates a fresh identifier.
	EntryID string `json:"entry_id,omitempty"`

	// Operation is one of CREATE, UPDATE, DELETE.
	Operation ChangeOperation `json:"operation"`

	// BaseVersion is the entry version the client believes the server
	// currently holds. Nil means the client makes no claim, which skips
	// conflict detection entirely. Absent for CREATE.
	BaseVersion *int64 `json:"base_version,omitempty"`

	// LastModified is the client-side wall-clock time of the edit. It is the
	// sole input to last-write-wins resolution when a version mismatch is
	// detected; version numbers never decide a conflict.
	LastModified time.Time `json:"last_modified"`

	// Ciphertext, IV and AuthTag carry the proposed encrypted payload for
	// CREATE and UPDATE. Ignored for DELETE.
	Ciphertext []byte `json:"ciphertext,omitempty"`
	IV         []byte `json:"iv,omitempty"`
	AuthTag    []byte `json:"auth_tag,omitempty"`

	// FolderID optionally places the entry into a folder.
	FolderID *string `json:"folder_id,omitempty"`
}

// Decision is the outcome of conflict resolution for a single UPDATE change.
// It is produced by a pure function and carries no side effects; the
// orchestrator performs the actual write.
type Decision struct {
	// HasConflict is true when the change's declared base version differs
	// from the server entry's current version.
	HasConflict bool

	// Resolution is NONE on the no-conflict path, otherwise CLIENT_WINS or
	// SERVER_WINS per the last-write-wins timestamp comparison.
	Resolution Resolution

	// EntityType names the kind of entity the decision concerns.
	EntityType string

	// EntityID is the identifier of the entry the decision concerns.
	EntityID string
}

// ConflictDetail describes one detected conflict in a SyncResponse, with the
// full resolution decision so clients can reconcile their local state.
//
// It carries versions and the verdict, not the winning payload: after a
// SERVER_WINS resolution the client fetches the current entry via
// GET /api/vault/entries to replace its stale copy.
type ConflictDetail struct {
	EntityType    string     `json:"entity_type"`
	EntityID      string     `json:"entity_id"`
	Resolution    Resolution `json:"resolution"`
	ServerVersion int64      `json:"server_version"`
	ClientVersion int64      `json:"client_version"`
}

// RejectedChange reports a change that failed outright (as opposed to
// conflicting): currently only UPDATE/DELETE against a missing active entry.
// A rejection is fatal to that single change, never to the batch.
type RejectedChange struct {
	EntryID   string          `json:"entry_id"`
	Operation ChangeOperation `json:"operation"`
	Reason    string          `json:"reason"`
}

// SyncStats aggregates per-operation counters over one sync batch.
type SyncStats struct {
	TotalProcessed int `json:"total_processed"`
	EntriesCreated int `json:"entries_created"`
	EntriesUpdated int `json:"entries_updated"`
	EntriesDeleted int `json:"entries_deleted"`
}

// SyncRequest is one synchronization batch submitted by a device.
type SyncRequest struct {
	// UserID is the owner of the vault being synchronized. It is populated
	// by the transport layer from the authenticated token, never trusted
	// from the request body.
	UserID int64 `json:"-"`

	// ClientVersion is the client's last-known sync version, recorded for
	// audit purposes only; it does not participate in conflict resolution.
	ClientVersion int64 `json:"client_version"`

	// Changes is the batch of proposed mutations. An empty batch is valid
	// and succeeds trivially.
	Changes []ClientChange `json:"changes"`

	// ClientIP and UserAgent identify the calling device in the sync
	// history. Populated by the transport layer.
	ClientIP  string `json:"-"`
	UserAgent string `json:"-"`
}

// SyncResponse is the aggregated result of one Synchronize call.
//
// Conflicts are an expected, modeled outcome: a batch containing only
// conflicts still reports Success=true. Only a store-level failure makes the
// whole call fail, and then no SyncResponse is produced at all.
type SyncResponse struct {
	Success   bool             `json:"success"`
	Conflicts []ConflictDetail `json:"conflicts,omitempty"`
	Rejected  []RejectedChange `json:"rejected,omitempty"`
	Stats     SyncStats        `json:"stats"`

	ConflictCount int  `json:"conflict_count"`
	HasConflicts  bool `json:"has_conflicts"`
}

// SyncRecord is one immutable audit row appended per Synchronize call.
type SyncRecord struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ClientVersion int64     `json:"client_version"`
	Status        string    `json:"status"`
	Success       bool      `json:"success"`
	Processed     int       `json:"processed"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Deleted       int       `json:"deleted"`
	Conflicts     int       `json:"conflicts"`
	ClientIP      string    `json:"client_ip"`
	UserAgent     string    `json:"user_agent"`
	CreatedAt     time.Time `json:"created_at"`
}

// Sync history statuses. A call that detected conflicts is distinguished from
// a clean sync in the audit trail even though both are successful for the
// client-facing contract.
const (
	SyncStatusSuccess  = "success"
	SyncStatusConflict = "conflict"
)

// TableName returns the name of the database table
// associated with the SyncRecord model.
func (r *SyncRecord) TableName() string {
	return "sync_history"
}

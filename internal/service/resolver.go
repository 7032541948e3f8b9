package service

import (
	"github.com/MKhiriev/go-vault-sync/models"
)

// EntityTypeVaultEntry is the entity label carried by decisions and conflict
// details produced for vault entries.
const EntityTypeVaultEntry = "vault_entry"

// conflictResolver is the concrete implementation of [ConflictResolver].
// It is a pure, stateless decision function; no storage layer or logger is
// required because the operation produces no side effects.
type conflictResolver struct{}

// NewConflictResolver constructs a ConflictResolver ready for use.
// Because Resolve is a stateless, in-memory operation, no dependencies
// (storage, config, logger) are needed.
func NewConflictResolver() ConflictResolver {
	return &conflictResolver{}
}

// Resolve implements [ConflictResolver].
//
// The decision is made in two steps:
//
//   - Conflict detection is version-based: a conflict exists only when the
//     client declares a base version and it differs from the server entry's
//     current version. A change with no declared base version never
//     conflicts (the client makes no claim about server state).
//
//   - Conflict resolution is timestamp-based, not version-based: the
//     client's wall-clock LastModified is compared against the server
//     entry's UpdatedAt. A strictly later client timestamp wins; an
//     earlier-or-equal one loses. Ties go to the server, which keeps the
//     outcome deterministic and favors stability over client-initiated
//     overwrite.
//
// Because resolution ignores version numbers, a client can win a conflict
// even when its declared base version is older than the server's, provided
// its edit is more recent on the wall clock. That is the intended
// most-recent-edit-wins behavior; it also means correctness of the winner
// choice depends on reasonably synchronized client clocks (NTP), which is a
// known operational risk of this policy.
func (r *conflictResolver) Resolve(serverEntry models.VaultEntry, change models.ClientChange) models.Decision {
	decision := models.Decision{
		Resolution: models.ResolutionNone,
		EntityType: EntityTypeVaultEntry,
		EntityID:   serverEntry.EntryID,
	}

	// No claim, or claim matches: the change applies directly.
	if change.BaseVersion == nil || *change.BaseVersion == serverEntry.Version {
		return decision
	}

	decision.HasConflict = true

	if change.LastModified.After(serverEntry.UpdatedAt) {
		decision.Resolution = models.ResolutionClientWins
	} else {
		decision.Resolution = models.ResolutionServerWins
	}

	return decision
}

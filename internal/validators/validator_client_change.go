package validators

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/models"
)

const (
	FieldEntryID     = "entry_id"
	FieldOperation   = "operation"
	FieldCiphertext  = "ciphertext"
	FieldIV          = "iv"
	FieldAuthTag     = "auth_tag"
	FieldBaseVersion = "base_version"
)

var allowedOperations = []models.ChangeOperation{
	models.OpCreate,
	models.OpUpdate,
	models.OpDelete,
}

// ClientChangeValidator enforces the structural rules a single client change
// must satisfy before it is eligible for synchronization.
//
// The rules are operation-dependent:
//   - CREATE requires a complete encrypted payload (ciphertext, IV, auth
//     tag). The entry ID is optional; the server allocates one when absent.
//   - UPDATE requires an entry ID and a complete encrypted payload.
//   - DELETE requires only an entry ID; any payload is ignored.
//
// A declared base version, when present, must be positive for any operation:
// server-side versions start at 1, so a zero or negative claim can never
// match a stored entry.
type ClientChangeValidator struct {
}

func NewClientChangeValidator() Validator {
	return &ClientChangeValidator{}
}

func (v *ClientChangeValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ClientChange:
		return v.validateClientChange(ctx, value, fields...)
	case *models.ClientChange:
		return v.validateClientChange(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func isValidOperation(op models.ChangeOperation) bool {
	for _, allowed := range allowedOperations {
		if op == allowed {
			return true
		}
	}
	return false
}

func (v *ClientChangeValidator) validateClientChange(_ context.Context, change models.ClientChange, fields ...string) error {
	if len(fields) == 0 {
		fields = fieldsForOperation(change.Operation)
	}

	for _, f := range fields {
		switch f {
		case FieldOperation:
			if !isValidOperation(change.Operation) {
				return ErrInvalidOperation
			}
		case FieldEntryID:
			if change.EntryID == "" {
				return ErrInvalidEntryID
			}
		case FieldCiphertext:
			if len(change.Ciphertext) == 0 {
				return ErrEmptyCiphertext
			}
		case FieldIV:
			if len(change.IV) == 0 {
				return ErrEmptyIV
			}
		case FieldAuthTag:
			if len(change.AuthTag) == 0 {
				return ErrEmptyAuthTag
			}
		case FieldBaseVersion:
			if change.BaseVersion != nil && *change.BaseVersion <= 0 {
				return ErrInvalidBaseVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// fieldsForOperation selects the field set checked by default for the given
// operation. An unknown operation still validates the operation field itself,
// which reports [ErrInvalidOperation].
func fieldsForOperation(op models.ChangeOperation) []string {
	switch op {
	case models.OpCreate:
		return []string{FieldOperation, FieldCiphertext, FieldIV, FieldAuthTag, FieldBaseVersion}
	case models.OpUpdate:
		return []string{FieldOperation, FieldEntryID, FieldCiphertext, FieldIV, FieldAuthTag, FieldBaseVersion}
	case models.OpDelete:
		return []string{FieldOperation, FieldEntryID}
	default:
		return []string{FieldOperation}
	}
}

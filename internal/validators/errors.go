package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEntryID     = errors.New("invalid entry ID")
	ErrInvalidOperation   = errors.New("invalid change operation")
	ErrEmptyCiphertext    = errors.New("ciphertext is required")
	ErrEmptyIV            = errors.New("IV is required")
	ErrEmptyAuthTag       = errors.New("auth tag is required")
	ErrInvalidBaseVersion = errors.New("invalid base version")
)

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired = errors.New("token is expired")

	// ErrUnknownOperation is returned when a client change carries an
	// operation outside CREATE/UPDATE/DELETE.
	ErrUnknownOperation = errors.New("unknown change operation")

	// ErrTooManyWriteConflicts is reported for a change whose conditional
	// write kept losing the optimistic-lock race after repeated re-reads.
	ErrTooManyWriteConflicts = errors.New("too many concurrent write conflicts")
)

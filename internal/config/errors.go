package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a negative purge interval or retention).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)

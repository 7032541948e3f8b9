package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Zero-valued fields are permitted here: callers that require specific
// settings (e.g. a non-empty DSN to open the store) fail with their own
// errors, while defaults are applied by the consuming component (e.g. the
// purge worker's interval and retention).
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.PurgeRetention < 0 || cfg.Workers.PurgeInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

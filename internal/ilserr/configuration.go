package ilserr

import "errors"

// ConfigurationError means required configuration for a capability is
// missing. Capability checks return false instead of letting the
// operation fail at call time; this error is for construction-time
// validation (fail fast on a missing host or API key).
type ConfigurationError struct {
	Backend string
	Field   string
}

func (e *ConfigurationError) Error() string {
	return e.Backend + ": missing required configuration: " + e.Field
}

// NewConfigurationError creates a ConfigurationError for a missing
// field of the named backend.
func NewConfigurationError(backend, field string) *ConfigurationError {
	return &ConfigurationError{Backend: backend, Field: field}
}

// IsConfigurationError reports whether err is a ConfigurationError
// (even when wrapped).
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

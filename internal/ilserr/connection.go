// Package ilserr defines the failure taxonomy shared by all ILS
// drivers. Drivers catch their backend's transport and protocol faults
// at the boundary and reclassify them into these types; callers above
// the driver contract never observe a backend-specific error.
package ilserr

import "errors"

// ConnectionError means the backend was unreachable, timed out, or
// returned a transport-level fault. Callers map it to an "offline"
// user message; it must never be swallowed into an empty result.
type ConnectionError struct {
	Backend string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return e.Backend + ": backend unreachable"
	}
	return e.Backend + ": backend unreachable: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError wraps a transport failure from the named backend.
func NewConnectionError(backend string, err error) *ConnectionError {
	return &ConnectionError{Backend: backend, Err: err}
}

// IsConnectionError reports whether err is a ConnectionError (even when
// wrapped).
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

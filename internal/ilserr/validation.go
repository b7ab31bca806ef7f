package ilserr

import "errors"

// ValidationError means the backend explicitly rejected a request as
// semantically invalid (bad pickup location, duplicate hold, missing
// mandatory field). Code is a machine-readable message key translated
// at the presentation boundary; operations surface it inside their
// result object so batch calls can report partial success.
type ValidationError struct {
	Code   string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return e.Code + ": " + e.Detail
}

// NewValidationError creates a ValidationError with the given message
// key and optional backend detail.
func NewValidationError(code, detail string) *ValidationError {
	return &ValidationError{Code: code, Detail: detail}
}

// ValidationCode extracts the message key from err, or "" when err is
// not a ValidationError.
func ValidationCode(err error) string {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Code
	}
	return ""
}

// IsValidationError reports whether err is a ValidationError (even when
// wrapped).
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

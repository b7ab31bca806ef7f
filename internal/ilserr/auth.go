package ilserr

import "errors"

// AuthError means the presented credentials were rejected. PatronLogin
// surfaces it as a nil patron; it is distinct from ConnectionError so
// "wrong password" is never reported as "backend offline".
type AuthError struct {
	Backend string
}

func (e *AuthError) Error() string {
	return e.Backend + ": invalid credentials"
}

// NewAuthError creates an AuthError for the named backend.
func NewAuthError(backend string) *AuthError {
	return &AuthError{Backend: backend}
}

// IsAuthError reports whether err is an AuthError (even when wrapped).
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

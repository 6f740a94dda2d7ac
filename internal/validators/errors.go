package validators

import "errors"

// Sentinel errors describing the first violated credential rule. Each is
// wrapped with a validation classification before leaving the package, so
// callers can both print it and match it with [errors.Is].
var (
	ErrNameSyntax      = errors.New("name must be at least 2 characters, letters and digits only, no spaces")
	ErrNameReserved    = errors.New("that name is reserved")
	ErrUsernameEmpty   = errors.New("username must not be empty")
	ErrUsernameTaken   = errors.New("username is already enrolled")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters")
	ErrSecurityKeySize = errors.New("security key must be empty or at least 8 characters")
	ErrPINTooShort     = errors.New("PIN must be at least 4 characters")
)

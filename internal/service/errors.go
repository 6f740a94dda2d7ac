package service

import "errors"

var (
	ErrBlankUsername          = errors.New("username must not be blank")
	ErrBadCredentials         = errors.New("invalid credentials")
	ErrLockedOut              = errors.New("attempt budget exhausted")
	ErrAdministratorImmutable = errors.New("the Administrator account cannot be changed")
	ErrSelfDeleted            = errors.New("own account deleted")
	ErrUnknownField           = errors.New("unknown account field")
	ErrNotAdministrator       = errors.New("administrator privileges required")
	ErrAlreadyAdministrator   = errors.New("account already has administrator privileges")
	ErrNotPromoted            = errors.New("account has no administrator privileges to revoke")
	ErrAborted                = errors.New("operation aborted")
)

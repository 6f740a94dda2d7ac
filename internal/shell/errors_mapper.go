package shell

import (
	"errors"

	"github.com/MKhiriev/vosh/internal/app"
	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/service"
	"github.com/MKhiriev/vosh/internal/store"
	"github.com/MKhiriev/vosh/internal/vfs"
)

// operatorMessage translates an internal error into the line the operator
// sees. Known sentinels get the canonical wording; classified faults fall
// back to their own message; anything unclassified is hidden behind a
// generic notice because its details belong in the log, not on screen.
func operatorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrLockedOut):
		return app.MsgLockedOut
	case errors.Is(err, service.ErrBlankUsername), errors.Is(err, service.ErrBadCredentials):
		return app.MsgInvalidCredentials
	case errors.Is(err, service.ErrAdministratorImmutable):
		return app.MsgAdministratorImmutable
	case errors.Is(err, service.ErrNotAdministrator):
		return app.MsgAdminOnly
	case errors.Is(err, vfs.ErrOutsideJail):
		return app.MsgPathOutsideHome
	case errors.Is(err, vfs.ErrNotFound):
		return app.MsgNoSuchEntry
	case errors.Is(err, store.ErrUserNotFound):
		return app.MsgNoSuchEntry
	}

	if fault.IsRecoverable(err) {
		return err.Error()
	}
	return app.MsgInternalError
}

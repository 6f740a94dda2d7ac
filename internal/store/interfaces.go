package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/vosh/models"
)

// UserRepository is the narrow CRUD contract the session kernel requires from
// the credential record store. Records are keyed by the hashed username; the
// store never sees a plaintext credential.
type UserRepository interface {
	// CreateUser persists a new record. Returns [ErrUserExists] when the
	// hashed username is already enrolled.
	CreateUser(ctx context.Context, user models.UserRecord) error

	// FindUser retrieves the record keyed by hashedUsername. Returns
	// [ErrUserNotFound] when no such record exists.
	FindUser(ctx context.Context, hashedUsername string) (models.UserRecord, error)

	// UpdateUserField mutates one column of an existing record. Returns
	// [ErrUnknownField] for a field outside the closed mutable set and
	// [ErrUserNotFound] when the record does not exist.
	UpdateUserField(ctx context.Context, hashedUsername string, field models.UserField, value string) error

	// DeleteUser removes the record keyed by hashedUsername. Returns
	// [ErrUserNotFound] when the record does not exist.
	DeleteUser(ctx context.Context, hashedUsername string) error

	// UserExists reports whether a record keyed by hashedUsername is
	// enrolled.
	UserExists(ctx context.Context, hashedUsername string) (bool, error)

	// ListUsers enumerates every enrolled record.
	ListUsers(ctx context.Context) ([]models.UserRecord, error)
}

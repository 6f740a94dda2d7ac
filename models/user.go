package models

// AdministratorName is the reserved display name of the canonical
// administrator record. The record carrying it can never be deleted,
// promoted, demoted or renamed, and no other account may claim the name.
const AdministratorName = "Administrator"

// Privileges values as persisted in the record store.
const (
	PrivilegesAdmin    = "Yes"
	PrivilegesStandard = "No"
)

// UserRecord represents one enrolled identity. Every credential field holds a
// one-way digest, never plaintext; DisplayName is the only human-readable
// column.
type UserRecord struct {
	// HashedUsername is the digest of the login name. It is the primary key
	// of the record store and immutable for the lifetime of the record.
	HashedUsername string

	// DisplayName is free text shown in the prompt and listings.
	// Uniqueness is not enforced, except for the reserved Administrator name.
	DisplayName string

	// HashedPassword is the digest of the login password.
	HashedPassword string

	// HashedSecurityKey is the digest of the optional second factor. An
	// empty string means the account opted out; authentication then
	// succeeds only when the caller also supplies no key.
	HashedSecurityKey string

	// HashedPIN is the digest of the screen-unlock PIN.
	HashedPIN string

	// IsAdmin grants unconditional policy bypass and access to the
	// administrator-only account operations.
	IsAdmin bool
}

// IsAdministratorRecord reports whether this is the canonical Administrator
// record.
func (u UserRecord) IsAdministratorRecord() bool {
	return u.DisplayName == AdministratorName
}

// Privileges renders the admin flag in its persisted form.
func (u UserRecord) Privileges() string {
	if u.IsAdmin {
		return PrivilegesAdmin
	}
	return PrivilegesStandard
}

// TableName returns the name of the database table associated with the
// UserRecord model.
func (u UserRecord) TableName() string {
	return "users"
}

// UserField names one individually mutable column of a UserRecord. The
// closed set keeps field updates away from arbitrary SQL column injection.
type UserField string

const (
	FieldDisplayName UserField = "name"
	FieldPassword    UserField = "password"
	FieldSecurityKey UserField = "security_key"
	FieldPIN         UserField = "pin"
	FieldPrivileges  UserField = "privileges"
)

// Valid reports whether f names a known mutable column.
func (f UserField) Valid() bool {
	switch f {
	case FieldDisplayName, FieldPassword, FieldSecurityKey, FieldPIN, FieldPrivileges:
		return true
	default:
		return false
	}
}

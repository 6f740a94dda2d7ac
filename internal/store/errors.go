package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserExists is returned when an attempt to enroll a new record fails
	// because a record with the same hashed username already exists.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when a query expected to match exactly one
	// user record produces an empty result set.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnknownField is returned when an update names a column outside the
	// closed mutable set.
	ErrUnknownField = errors.New("unknown user field")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when the database driver reports a
	// failure executing a statement.
	ErrExecutingQuery = errors.New("error executing query")

	// ErrScanningRow is returned when reading a result row into a
	// [models.UserRecord] fails.
	ErrScanningRow = errors.New("error scanning row")
)

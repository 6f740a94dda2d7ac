package service

import (
	"context"

	"github.com/MKhiriev/vosh/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Actor identifies who is performing an operation. The shell builds one from
// the live session before each service call.
type Actor struct {
	HashedUsername string
	IsAdmin        bool
}

// Collector gathers interactive input during multi-step account operations.
// The shell provides the console-backed implementation; tests provide
// scripted ones.
type Collector interface {
	// Text reads one visible line.
	Text(prompt string) (string, error)

	// Secret reads one line with echo disabled.
	Secret(prompt string) (string, error)

	// Confirmed reads a secret twice and re-prompts until both entries
	// match.
	Confirmed(prompt string) (string, error)

	// YesNo asks a yes/no question and re-prompts until the answer parses.
	YesNo(prompt string) (bool, error)

	// Notice prints an informational line to the operator.
	Notice(message string)
}

type AuthService interface {
	// Login verifies the full credential set and returns the matching
	// record. Failures are counted against the lockout budget; the attempt
	// that exhausts it returns [ErrLockedOut] after the cooldown has been
	// served.
	Login(ctx context.Context, username, password, securityKey string) (models.UserRecord, error)

	// ChallengePIN compares an entered PIN against the digest cached at
	// login.
	ChallengePIN(enteredPIN, storedDigest string) bool

	// AttemptsLeft reports the remaining failure budget.
	AttemptsLeft() int
}

type AccountService interface {
	// Create enrolls a new account, collecting and validating each
	// credential interactively. Only administrators may grant privileges.
	Create(ctx context.Context, acting Actor, col Collector) error

	// Modify changes one field of an account. Administrators may target any
	// account; everyone else targets their own.
	Modify(ctx context.Context, acting Actor, col Collector) error

	// Delete removes an account, its record and its home subtree. Deleting
	// the session's own account returns [ErrSelfDeleted] after the grace
	// delay.
	Delete(ctx context.Context, acting Actor, col Collector) error

	// Promote grants administrator privileges to the named account.
	Promote(ctx context.Context, acting Actor, username string) error

	// Demote revokes administrator privileges from the named account.
	Demote(ctx context.Context, acting Actor, username string) error

	// Inspect returns the stored record for the named account.
	Inspect(ctx context.Context, acting Actor, username string) (models.UserRecord, error)

	// EnsureHome creates the per-user home directory if missing and returns
	// its path.
	EnsureHome(rec models.UserRecord) (string, error)
}

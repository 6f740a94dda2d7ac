package validators

//go:generate mockgen -source=interfaces.go -destination=../mock/validators_mock.go -package=mock

import "context"

// CredentialValidator holds the per-field syntax rules every credential must
// satisfy before it is hashed and stored. All methods return a classified
// validation error describing the first violated rule, or nil.
type CredentialValidator interface {
	// ValidateName checks a display name: alphanumeric, no spaces, at least
	// two characters, and never the reserved Administrator name.
	ValidateName(name string) error

	// ValidateUsername checks a plaintext login name: non-empty, never the
	// reserved Administrator name, and not already enrolled in the record
	// store.
	ValidateUsername(ctx context.Context, usernamePlain string) error

	// ValidatePassword checks a plaintext password: at least eight
	// characters.
	ValidatePassword(password string) error

	// ValidateSecurityKey checks a plaintext second factor: empty (opt-out)
	// or at least eight characters.
	ValidateSecurityKey(key string) error

	// ValidatePIN checks a plaintext unlock PIN: at least four characters.
	ValidatePIN(pin string) error
}

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/hasher_mock.go -package=mock

// Hasher produces the one-way, deterministic digest stored in place of every
// credential field. The same plaintext always yields the same hex digest, so
// digests can double as lookup keys (the users table is keyed by the hashed
// username).
//
// Implementations must never be able to recover the plaintext from a digest.
type Hasher interface {
	// Digest hashes a credential string and returns a fixed-length
	// hex-encoded digest.
	Digest(plain string) string

	// DigestBytes hashes raw bytes. Used by the file-management engine to
	// compute per-file content digests for directory listings.
	DigestBytes(data []byte) string
}

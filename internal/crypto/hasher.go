// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the credential hasher used for every stored and
// compared secret in vosh.
//
// Digests are keyed HMAC-SHA256 values. The HMAC key itself is not the raw
// configured passphrase: it is stretched once at construction time with
// Argon2id so a leaked record store cannot be attacked with a cheap
// dictionary pass over candidate passphrases.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"

	"golang.org/x/crypto/argon2"
)

// keySalt is a fixed domain-separation salt for the Argon2id key derivation.
// It must never change between releases or every stored digest becomes
// unverifiable.
const keySalt = "vosh.credential.hasher.v1"

// Argon2id parameters per the OWASP recommendation (2024):
// 1 iteration, 64 MiB, 4 threads, 32-byte key.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// hmacHasher is the private implementation of [Hasher]. HMAC instances are
// pooled to avoid re-allocating SHA-256 state on every credential comparison
// and directory listing.
type hmacHasher struct {
	pool sync.Pool
}

// NewHasher derives the HMAC key from the configured passphrase via Argon2id
// and returns a ready-to-use [Hasher]. The derivation runs exactly once per
// process; individual Digest calls are cheap.
func NewHasher(passphrase string) Hasher {
	key := argon2.IDKey([]byte(passphrase), []byte(keySalt), argonTime, argonMemory, argonThreads, argonKeyLen)

	return &hmacHasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Digest implements [Hasher].
func (h *hmacHasher) Digest(plain string) string {
	return h.DigestBytes([]byte(plain))
}

// DigestBytes implements [Hasher].
func (h *hmacHasher) DigestBytes(data []byte) string {
	hasher := h.pool.Get().(hash.Hash)
	hasher.Reset()
	hasher.Write(data)
	sum := hasher.Sum(nil)
	hasher.Reset()
	h.pool.Put(hasher)

	return hex.EncodeToString(sum)
}

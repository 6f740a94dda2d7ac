// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/hmac"
	"strings"
	"time"

	"github.com/MKhiriev/vosh/internal/config"
	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/internal/store"
	"github.com/MKhiriev/vosh/models"
)

// authService is the concrete implementation of AuthService. It verifies the
// password and security-key conjunction against hashed records and enforces
// the fixed-window lockout on consecutive failures.
type authService struct {
	// userRepository is the data-access layer used to look up records by
	// hashed username.
	userRepository store.UserRepository

	// hasher produces the keyed digests records are stored under.
	hasher crypto.Hasher

	// maxAttempts is the consecutive-failure budget.
	maxAttempts int

	// cooldown is the fixed delay served when the budget runs out.
	cooldown time.Duration

	// attemptsLeft counts down on failure and resets on success or after a
	// served cooldown.
	attemptsLeft int

	// sleep is swapped out in tests so lockout does not stall them.
	sleep func(time.Duration)

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService with a full attempt budget.
//
// The returned service keeps mutable lockout state and is meant for the
// single-operator shell loop, not for concurrent use.
func NewAuthService(userRepository store.UserRepository, hasher crypto.Hasher, cfg config.Auth, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		hasher:         hasher,
		maxAttempts:    cfg.MaxAttempts,
		cooldown:       cfg.LockoutCooldown,
		attemptsLeft:   cfg.MaxAttempts,
		sleep:          time.Sleep,
		logger:         logger,
	}
}

// Login verifies username, password and the optional security key as one
// conjunction. A blank username fails immediately and still consumes an
// attempt; no partial credential ever reaches the record store.
func (s *authService) Login(ctx context.Context, username, password, securityKey string) (models.UserRecord, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(username) == "" {
		return models.UserRecord{}, s.fail(fault.Wrap(fault.Authentication, ErrBlankUsername))
	}

	rec, err := s.userRepository.FindUser(ctx, s.hasher.Digest(username))
	if err != nil {
		log.Info().Str("func", "Login").Msg("unknown username")
		return models.UserRecord{}, s.fail(fault.Wrap(fault.Authentication, ErrBadCredentials))
	}

	// Both factors are checked before answering so a wrong password and a
	// wrong key are indistinguishable to the operator.
	passwordOk := digestEqual(s.hasher.Digest(password), rec.HashedPassword)
	keyOk := digestEqual(s.digestOrEmpty(securityKey), rec.HashedSecurityKey)
	if !passwordOk || !keyOk {
		log.Info().Str("func", "Login").Msg("credential mismatch")
		return models.UserRecord{}, s.fail(fault.Wrap(fault.Authentication, ErrBadCredentials))
	}

	s.attemptsLeft = s.maxAttempts
	log.Info().Str("func", "Login").Str("user", rec.DisplayName).Bool("admin", rec.IsAdmin).Msg("login accepted")
	return rec, nil
}

// ChallengePIN compares an entered PIN with the digest cached at login. A
// mismatch burns the same attempt budget as a failed login, so a lock screen
// cannot be used to brute-force the PIN.
func (s *authService) ChallengePIN(enteredPIN, storedDigest string) bool {
	if !digestEqual(s.hasher.Digest(enteredPIN), storedDigest) {
		_ = s.fail(ErrBadCredentials)
		return false
	}
	s.attemptsLeft = s.maxAttempts
	return true
}

// AttemptsLeft reports the remaining failure budget.
func (s *authService) AttemptsLeft() int {
	return s.attemptsLeft
}

// fail burns one attempt. Exhausting the budget serves the cooldown, resets
// the counter to the full budget and reports the lockout instead of the
// underlying failure.
func (s *authService) fail(cause error) error {
	s.attemptsLeft--
	if s.attemptsLeft > 0 {
		return cause
	}

	s.logger.Info().Str("func", "fail").Dur("cooldown", s.cooldown).Msg("attempt budget exhausted")
	s.sleep(s.cooldown)
	s.attemptsLeft = s.maxAttempts
	return fault.Wrap(fault.Authentication, ErrLockedOut)
}

func (s *authService) digestOrEmpty(plain string) string {
	if plain == "" {
		return ""
	}
	return s.hasher.Digest(plain)
}

// digestEqual compares two hex digests in constant time. Empty-against-empty
// matches, which is how records without a security key opt out.
func digestEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators implements the credential syntax rules enforced before
// any secret is hashed and persisted.
//
// Field predicates are expressed as go-playground/validator variable rules
// plus the reserved-name and duplicate-enrollment checks that the tag
// language cannot express.
package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/store"
	"github.com/MKhiriev/vosh/models"
)

// credentialValidator is the private implementation of [CredentialValidator].
type credentialValidator struct {
	validate *validator.Validate
	users    store.UserRepository
	hasher   crypto.Hasher
}

// NewCredentialValidator constructs a [CredentialValidator] that checks
// username uniqueness against the provided repository. The hasher is needed
// because the store is keyed by digests, never by plaintext.
func NewCredentialValidator(users store.UserRepository, hasher crypto.Hasher) CredentialValidator {
	return &credentialValidator{
		validate: validator.New(),
		users:    users,
		hasher:   hasher,
	}
}

// ValidateName implements [CredentialValidator].
func (c *credentialValidator) ValidateName(name string) error {
	if err := c.validate.Var(name, "required,alphanum,min=2"); err != nil {
		return fault.Wrap(fault.Validation, ErrNameSyntax)
	}

	if strings.EqualFold(name, models.AdministratorName) {
		return fault.Wrap(fault.Validation, ErrNameReserved)
	}

	return nil
}

// ValidateUsername implements [CredentialValidator].
func (c *credentialValidator) ValidateUsername(ctx context.Context, usernamePlain string) error {
	if strings.TrimSpace(usernamePlain) == "" {
		return fault.Wrap(fault.Validation, ErrUsernameEmpty)
	}

	if strings.EqualFold(usernamePlain, models.AdministratorName) {
		return fault.Wrap(fault.Validation, ErrNameReserved)
	}

	exists, err := c.users.UserExists(ctx, c.hasher.Digest(usernamePlain))
	if err != nil {
		return fault.Wrap(fault.Resource, fmt.Errorf("checking enrollment: %w", err))
	}
	if exists {
		return fault.Wrap(fault.Validation, ErrUsernameTaken)
	}

	return nil
}

// ValidatePassword implements [CredentialValidator].
func (c *credentialValidator) ValidatePassword(password string) error {
	if err := c.validate.Var(password, "required,min=8"); err != nil {
		return fault.Wrap(fault.Validation, ErrPasswordTooWeak)
	}
	return nil
}

// ValidateSecurityKey implements [CredentialValidator]. An empty key is a
// valid opt-out of the second factor.
func (c *credentialValidator) ValidateSecurityKey(key string) error {
	if err := c.validate.Var(key, "omitempty,min=8"); err != nil {
		return fault.Wrap(fault.Validation, ErrSecurityKeySize)
	}
	return nil
}

// ValidatePIN implements [CredentialValidator].
func (c *credentialValidator) ValidatePIN(pin string) error {
	if err := c.validate.Var(pin, "required,min=4"); err != nil {
		return fault.Wrap(fault.Validation, ErrPINTooShort)
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/vosh/internal/config"
	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/internal/store"
	"github.com/MKhiriev/vosh/internal/validators"
	"github.com/MKhiriev/vosh/models"
)

// accountService is the concrete implementation of AccountService. It owns
// the full account lifecycle: interactive enrollment, per-field mutation,
// privilege changes and deletion together with the home subtree.
type accountService struct {
	userRepository store.UserRepository
	hasher         crypto.Hasher
	validator      validators.CredentialValidator

	// homeRoot is the directory per-user homes are created under, keyed by
	// hashed username.
	homeRoot string

	// selfDeleteGrace is the pause between confirming a self-deletion and
	// reporting it, so the operator sees the farewell before shutdown.
	selfDeleteGrace time.Duration

	sleep  func(time.Duration)
	logger *logger.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(userRepository store.UserRepository, hasher crypto.Hasher, validator validators.CredentialValidator, cfg config.StructuredConfig, logger *logger.Logger) AccountService {
	return &accountService{
		userRepository:  userRepository,
		hasher:          hasher,
		validator:       validator,
		homeRoot:        cfg.Storage.Home.Root,
		selfDeleteGrace: cfg.Auth.SelfDeleteGrace,
		sleep:           time.Sleep,
		logger:          logger,
	}
}

// Create enrolls a new account. Every credential is collected interactively,
// validated, then hashed; the plaintext never leaves this call. Secrets are
// entered twice and re-collected until both entries agree and the field
// predicate passes.
func (s *accountService) Create(ctx context.Context, acting Actor, col Collector) error {
	username, err := collectValid(col.Text, col, "Username: ", func(v string) error {
		return s.validator.ValidateUsername(ctx, v)
	})
	if err != nil {
		return err
	}

	name, err := collectValid(col.Text, col, "Name: ", s.validator.ValidateName)
	if err != nil {
		return err
	}

	password, err := collectValid(col.Confirmed, col, "Password: ", s.validator.ValidatePassword)
	if err != nil {
		return err
	}

	securityKey, err := collectValid(col.Confirmed, col, "Security key (enter to skip): ", s.validator.ValidateSecurityKey)
	if err != nil {
		return err
	}

	pin, err := collectValid(col.Confirmed, col, "PIN: ", s.validator.ValidatePIN)
	if err != nil {
		return err
	}

	isAdmin := false
	if acting.IsAdmin {
		if isAdmin, err = col.YesNo("Grant administrator privileges? [y/n]: "); err != nil {
			return err
		}
	}

	rec := models.UserRecord{
		HashedUsername:    s.hasher.Digest(username),
		DisplayName:       name,
		HashedPassword:    s.hasher.Digest(password),
		HashedSecurityKey: s.digestOrEmpty(securityKey),
		HashedPIN:         s.hasher.Digest(pin),
		IsAdmin:           isAdmin,
	}
	if err = s.userRepository.CreateUser(ctx, rec); err != nil {
		return fault.Wrap(fault.Resource, err)
	}
	if _, err = s.EnsureHome(rec); err != nil {
		return err
	}

	s.logger.Info().Str("func", "Create").Str("user", name).Bool("admin", isAdmin).Msg("account enrolled")
	col.Notice(fmt.Sprintf("Account %q created.", name))
	return nil
}

// Modify changes one mutable field of an account. Privileges are out of
// scope here; they change only through Promote and Demote.
func (s *accountService) Modify(ctx context.Context, acting Actor, col Collector) error {
	target, err := s.chooseTarget(ctx, acting, col, "Username (enter for own account): ")
	if err != nil {
		return err
	}

	fieldName, err := col.Text("Field [name password security_key pin]: ")
	if err != nil {
		return err
	}
	field := models.UserField(strings.ToLower(strings.TrimSpace(fieldName)))
	if !field.Valid() || field == models.FieldPrivileges {
		return fault.Wrap(fault.Validation, fmt.Errorf("%w: %s", ErrUnknownField, fieldName))
	}
	if field == models.FieldDisplayName && target.IsAdministratorRecord() {
		return fault.Wrap(fault.Validation, ErrAdministratorImmutable)
	}

	value, err := s.collectFieldValue(col, field)
	if err != nil {
		return err
	}
	if err = s.userRepository.UpdateUserField(ctx, target.HashedUsername, field, value); err != nil {
		return fault.Wrap(fault.Resource, err)
	}

	s.logger.Info().Str("func", "Modify").Str("field", string(field)).Msg("account field updated")
	col.Notice(fmt.Sprintf("Field %q updated.", field))
	return nil
}

// Delete removes an account record together with its home subtree. The
// Administrator record is untouchable. A user deleting their own account is
// told goodbye, the grace delay is served, then [ErrSelfDeleted] signals the
// shell to shut down.
func (s *accountService) Delete(ctx context.Context, acting Actor, col Collector) error {
	target, err := s.chooseTarget(ctx, acting, col, "Username to delete (enter for own account): ")
	if err != nil {
		return err
	}
	if target.IsAdministratorRecord() {
		return fault.Wrap(fault.Validation, ErrAdministratorImmutable)
	}

	confirmed, err := col.YesNo(fmt.Sprintf("Really delete account %q and all its files? [y/n]: ", target.DisplayName))
	if err != nil {
		return err
	}
	if !confirmed {
		return fault.Wrap(fault.Validation, ErrAborted)
	}

	if err = s.userRepository.DeleteUser(ctx, target.HashedUsername); err != nil {
		return fault.Wrap(fault.Resource, err)
	}
	// Record first, files second: a record without files recovers cleanly,
	// files without a record would be orphaned.
	if rmErr := os.RemoveAll(s.homePath(target.HashedUsername)); rmErr != nil {
		s.logger.Error().Err(rmErr).Str("func", "Delete").Msg("record removed but home subtree remains")
		return fault.Wrap(fault.Resource, fmt.Errorf("account removed, home directory not fully deleted: %w", rmErr))
	}

	s.logger.Info().Str("func", "Delete").Str("user", target.DisplayName).Msg("account deleted")
	if target.HashedUsername == acting.HashedUsername {
		col.Notice("Your account is gone. Goodbye.")
		s.sleep(s.selfDeleteGrace)
		return ErrSelfDeleted
	}
	col.Notice(fmt.Sprintf("Account %q deleted.", target.DisplayName))
	return nil
}

// Promote grants administrator privileges. Administrator-only.
func (s *accountService) Promote(ctx context.Context, acting Actor, username string) error {
	target, err := s.findForPrivilegeChange(ctx, acting, username)
	if err != nil {
		return err
	}
	if target.IsAdmin {
		return fault.Wrap(fault.Validation, ErrAlreadyAdministrator)
	}
	if err = s.userRepository.UpdateUserField(ctx, target.HashedUsername, models.FieldPrivileges, models.PrivilegesAdmin); err != nil {
		return fault.Wrap(fault.Resource, err)
	}
	s.logger.Info().Str("func", "Promote").Str("user", target.DisplayName).Msg("privileges granted")
	return nil
}

// Demote revokes administrator privileges. Administrator-only, and the
// Administrator record itself cannot be demoted.
func (s *accountService) Demote(ctx context.Context, acting Actor, username string) error {
	target, err := s.findForPrivilegeChange(ctx, acting, username)
	if err != nil {
		return err
	}
	if target.IsAdministratorRecord() {
		return fault.Wrap(fault.Validation, ErrAdministratorImmutable)
	}
	if !target.IsAdmin {
		return fault.Wrap(fault.Validation, ErrNotPromoted)
	}
	if err = s.userRepository.UpdateUserField(ctx, target.HashedUsername, models.FieldPrivileges, models.PrivilegesStandard); err != nil {
		return fault.Wrap(fault.Resource, err)
	}
	s.logger.Info().Str("func", "Demote").Str("user", target.DisplayName).Msg("privileges revoked")
	return nil
}

// Inspect returns the stored record for the named account. Administrator-only.
func (s *accountService) Inspect(ctx context.Context, acting Actor, username string) (models.UserRecord, error) {
	return s.findForPrivilegeChange(ctx, acting, username)
}

// EnsureHome creates the per-user home directory if missing. Homes are keyed
// by hashed username so directory names leak nothing about the login.
func (s *accountService) EnsureHome(rec models.UserRecord) (string, error) {
	path := s.homePath(rec.HashedUsername)
	if err := os.MkdirAll(path, 0o700); err != nil {
		return "", fault.Wrap(fault.Resource, err)
	}
	return path, nil
}

func (s *accountService) homePath(hashedUsername string) string {
	return filepath.Join(s.homeRoot, hashedUsername)
}

// chooseTarget resolves which account an operation applies to. Only
// administrators may name someone else; a blank answer means own account.
func (s *accountService) chooseTarget(ctx context.Context, acting Actor, col Collector, prompt string) (models.UserRecord, error) {
	hashed := acting.HashedUsername
	if acting.IsAdmin {
		username, err := col.Text(prompt)
		if err != nil {
			return models.UserRecord{}, err
		}
		if username != "" {
			hashed = s.hasher.Digest(username)
		}
	}

	rec, err := s.userRepository.FindUser(ctx, hashed)
	if err != nil {
		return models.UserRecord{}, fault.Wrap(fault.Resource, err)
	}
	return rec, nil
}

func (s *accountService) findForPrivilegeChange(ctx context.Context, acting Actor, username string) (models.UserRecord, error) {
	if !acting.IsAdmin {
		return models.UserRecord{}, fault.Wrap(fault.Authorization, ErrNotAdministrator)
	}
	rec, err := s.userRepository.FindUser(ctx, s.hasher.Digest(username))
	if err != nil {
		return models.UserRecord{}, fault.Wrap(fault.Resource, err)
	}
	return rec, nil
}

func (s *accountService) collectFieldValue(col Collector, field models.UserField) (string, error) {
	switch field {
	case models.FieldDisplayName:
		name, err := collectValid(col.Text, col, "New name: ", s.validator.ValidateName)
		if err != nil {
			return "", err
		}
		return name, nil

	case models.FieldPassword:
		password, err := collectValid(col.Confirmed, col, "New password: ", s.validator.ValidatePassword)
		if err != nil {
			return "", err
		}
		return s.hasher.Digest(password), nil

	case models.FieldSecurityKey:
		key, err := collectValid(col.Confirmed, col, "New security key (enter to remove): ", s.validator.ValidateSecurityKey)
		if err != nil {
			return "", err
		}
		return s.digestOrEmpty(key), nil

	case models.FieldPIN:
		pin, err := collectValid(col.Confirmed, col, "New PIN: ", s.validator.ValidatePIN)
		if err != nil {
			return "", err
		}
		return s.hasher.Digest(pin), nil
	}

	return "", fault.Wrap(fault.Validation, fmt.Errorf("%w: %s", ErrUnknownField, field))
}

// collectValid keeps prompting through read until check accepts the answer.
// The rejection reason is shown between attempts. Only a collector failure
// ends the loop early.
func collectValid(read func(string) (string, error), col Collector, prompt string, check func(string) error) (string, error) {
	for {
		value, err := read(prompt)
		if err != nil {
			return "", err
		}
		if checkErr := check(value); checkErr != nil {
			// Only a rejected answer is worth retyping; a broken store is not.
			if fault.KindOf(checkErr) != fault.Validation {
				return "", checkErr
			}
			col.Notice(checkErr.Error())
			continue
		}
		return value, nil
	}
}

func (s *accountService) digestOrEmpty(plain string) string {
	if plain == "" {
		return ""
	}
	return s.hasher.Digest(plain)
}

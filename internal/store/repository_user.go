// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/models"
)

// userRepository is the SQLite-backed implementation of [UserRepository].
// It handles enrollment, lookup, per-field mutation and removal of credential
// records in the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, operation-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new credential record.
//
// Error handling:
//   - SQLite constraint violation (duplicate primary key) → [ErrUserExists].
//   - Query construction failure → wrapped [ErrBuildingSQLQuery].
//   - Any other driver-level error → wrapped [ErrExecutingQuery].
func (r *userRepository) CreateUser(ctx context.Context, user models.UserRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateUser(user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: executing insert")

		if isConstraintViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// FindUser retrieves the record keyed by hashedUsername.
//
// Error handling:
//   - sql.ErrNoRows → [ErrUserNotFound].
//   - Scan failure → wrapped [ErrScanningRow].
func (r *userRepository) FindUser(ctx context.Context, hashedUsername string) (models.UserRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindUser(hashedUsername)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUser").Msg("error: building query")
		return models.UserRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)

	found, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserRecord{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.FindUser").Msg("error: scanning error")
		return models.UserRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// UpdateUserField mutates one column of an existing record. The field is
// checked against the closed mutable set before any SQL is assembled.
func (r *userRepository) UpdateUserField(ctx context.Context, hashedUsername string, field models.UserField, value string) error {
	log := logger.FromContext(ctx)

	if !field.Valid() {
		return ErrUnknownField
	}

	query, args, err := buildUpdateUserField(hashedUsername, field, value)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUserField").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUserField").Msg("error: executing update")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes the record keyed by hashedUsername.
func (r *userRepository) DeleteUser(ctx context.Context, hashedUsername string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteUser(hashedUsername)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UserExists reports whether a record keyed by hashedUsername is enrolled.
func (r *userRepository) UserExists(ctx context.Context, hashedUsername string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUserExists(hashedUsername)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UserExists").Msg("error: building query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*userRepository.UserExists").Msg("error: scanning count")
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count > 0, nil
}

// ListUsers enumerates every enrolled record ordered by display name.
func (r *userRepository) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListUsers()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error: building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var users []models.UserRecord
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error: scanning row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return users, nil
}

// scanUser reads one row in the [userColumns] shape via the provided scan
// function (works for both *sql.Row and *sql.Rows).
func scanUser(scan func(dest ...any) error) (models.UserRecord, error) {
	var user models.UserRecord
	var privileges string

	if err := scan(
		&user.HashedUsername,
		&user.DisplayName,
		&user.HashedPassword,
		&user.HashedSecurityKey,
		&user.HashedPIN,
		&privileges,
	); err != nil {
		return models.UserRecord{}, err
	}

	user.IsAdmin = privileges == models.PrivilegesAdmin
	return user, nil
}

// isConstraintViolation reports whether err is a SQLite constraint failure
// (duplicate primary key or CHECK violation).
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

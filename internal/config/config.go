// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the vosh
// shell. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, an optional JSON
// file, and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the credential hashing
	// passphrase and the application version.
	App App `envPrefix:"APP_"`

	// Auth holds the lockout budget and timing knobs of the authentication
	// manager.
	Auth Auth `envPrefix:"AUTH_"`

	// Storage holds configuration for the record store, the policy file and
	// the sandboxed home-directory root.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged below the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// HashPassphrase is the secret passphrase the credential hasher
	// stretches into its HMAC key. Must be kept confidential and must not
	// change after the first account is enrolled, or every stored digest
	// becomes unverifiable.
	// Env: APP_HASH_PASSPHRASE
	HashPassphrase string `env:"HASH_PASSPHRASE"`

	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Printed at startup.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Auth holds the lockout and grace-period settings of the authentication
// manager.
type Auth struct {
	// MaxAttempts is the consecutive-failure budget before the fixed-window
	// lockout engages.
	// Env: AUTH_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// LockoutCooldown is the fixed delay imposed after the attempt budget
	// is exhausted (e.g. "30s"). The counter resets to MaxAttempts once the
	// cooldown elapses.
	// Env: AUTH_LOCKOUT_COOLDOWN
	LockoutCooldown time.Duration `env:"LOCKOUT_COOLDOWN"`

	// SelfDeleteGrace is the delay between confirming a self-service
	// account deletion and process exit, giving the operator time to read
	// the farewell notice.
	// Env: AUTH_SELF_DELETE_GRACE
	SelfDeleteGrace time.Duration `env:"SELF_DELETE_GRACE"`
}

// Storage groups the configuration for all persistence backends used by the
// shell.
type Storage struct {
	// DB holds the record-store connection settings.
	DB DB `envPrefix:"DB_"`

	// Home holds the sandboxed home-directory settings.
	Home Home `envPrefix:"HOME_"`

	// Policy holds the policy-file settings.
	Policy Policy `envPrefix:"POLICY_"`
}

// DB holds connection settings for the SQLite record store.
type DB struct {
	// DSN is the SQLite database path (e.g. "vosh.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Home holds the sandbox root settings.
type Home struct {
	// Root is the directory under which every per-user home subtree lives.
	// No file operation may ever resolve outside a user's subtree of Root.
	// Env: STORAGE_HOME_ROOT
	Root string `env:"ROOT"`
}

// Policy holds the policy-file settings.
type Policy struct {
	// Path is the location of the flat key→value policy file.
	// Env: STORAGE_POLICY_PATH
	Path string `env:"PATH_FILE"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

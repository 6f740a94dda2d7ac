// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.HashPassphrase == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Home.Root == "" || cfg.Storage.Policy.Path == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Auth.MaxAttempts <= 0 || cfg.Auth.LockoutCooldown <= 0 {
		return ErrInvalidAuthConfigs
	}

	return nil
}

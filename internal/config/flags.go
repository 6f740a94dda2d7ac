// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database path for the record store
//	-home home-directory sandbox root
//	-policy policy file path
//	-c/-config json file path with configs
//	-hash-passphrase credential hasher passphrase
//	-max-attempts authentication attempt budget
//	-lockout-cooldown lockout window duration (e.g., "30s", "1m")
//	-self-delete-grace delay before exit after self-deletion (e.g., "3s")
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var homeRoot string
	var policyPath string
	var jsonConfigPath string
	var hashPassphrase string
	var maxAttempts int
	var lockoutCooldown time.Duration
	var selfDeleteGrace time.Duration

	flag.StringVar(&databaseDSN, "d", "", "Record store database path")
	flag.StringVar(&homeRoot, "home", "", "Home directory sandbox root")
	flag.StringVar(&policyPath, "policy", "", "Policy file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&hashPassphrase, "hash-passphrase", "", "Credential hasher passphrase")
	flag.IntVar(&maxAttempts, "max-attempts", 0, "Authentication attempt budget")
	flag.DurationVar(&lockoutCooldown, "lockout-cooldown", 0, "Lockout window (e.g., 30s, 1m)")
	flag.DurationVar(&selfDeleteGrace, "self-delete-grace", 0, "Self-delete grace delay (e.g., 3s)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			HashPassphrase: hashPassphrase,
		},
		Auth: Auth{
			MaxAttempts:     maxAttempts,
			LockoutCooldown: lockoutCooldown,
			SelfDeleteGrace: selfDeleteGrace,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Home: Home{
				Root: homeRoot,
			},
			Policy: Policy{
				Path: policyPath,
			},
		},
		JSONFilePath: jsonConfigPath,
	}
}

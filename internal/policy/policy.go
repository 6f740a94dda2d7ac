// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package policy implements the flat key→value settings store that gates
// shell operations for non-administrator callers.
//
// The backing file is a small YAML map managed through viper. Failure to read
// the store (missing file, malformed YAML, unknown key) is always reported
// as the ValueError sentinel, which every caller treats as "denied". Only an
// authenticated administrator bypasses the gate.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/MKhiriev/vosh/internal/logger"
)

// Well-known policy values.
const (
	// ValueOn is the only value that grants a gated operation.
	ValueOn = "on"

	// ValueOff denies a gated operation.
	ValueOff = "off"

	// ValueError is returned by Get for any read failure. Callers must treat
	// it exactly like ValueOff: an unreadable policy store fails safe.
	ValueError = "error"
)

// Operation gate keys. Each defaults to "on" after a reset.
const (
	KeyAccountCreate = "account_create"
	KeyAccountDelete = "account_delete"
	KeyAccountModify = "account_modify"
	KeyFileMgmt      = "filemgmt"
	KeyRead          = "read"
	KeyScript        = "script"
	KeyUpdate        = "update"
)

// Administrative keys. Each defaults to "off" after a reset.
const (
	KeyModule = "module"
	KeyPolicy = "policy"
	KeyAuth   = "auth"
)

// KeySystemName holds the randomized system name shown in the prompt.
const KeySystemName = "system_name"

// OperationKeys enumerates the gates that default to "on".
var OperationKeys = []string{
	KeyAccountCreate,
	KeyAccountDelete,
	KeyAccountModify,
	KeyFileMgmt,
	KeyRead,
	KeyScript,
	KeyUpdate,
}

// AdminKeys enumerates the gates that default to "off".
var AdminKeys = []string{KeyModule, KeyPolicy, KeyAuth}

// Engine reads and mutates the policy file. All methods are safe for the
// single-session access pattern of the shell; the mutex only guards against
// a Reset racing a Get from a replayed script.
type Engine struct {
	mu     sync.Mutex
	path   string
	v      *viper.Viper
	logger *logger.Logger
}

// New constructs an Engine over the policy file at path. A missing or broken
// file is not an error here: Get will keep returning ValueError until a
// Reset (or external repair) makes the store readable.
func New(path string, log *logger.Logger) *Engine {
	e := &Engine{
		path:   path,
		v:      newViper(path),
		logger: log,
	}

	if err := e.v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("policy store unreadable; all gated operations deny")
	}

	return e
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return v
}

// Get returns the string value stored under key, or ValueError when the
// store cannot be read or the key is absent. It re-reads the backing file on
// every call so external edits take effect without a restart.
func (e *Engine) Get(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.v.ReadInConfig(); err != nil {
		e.logger.Debug().Err(err).Str("key", key).Msg("policy read failed")
		return ValueError
	}

	if !e.v.IsSet(key) {
		return ValueError
	}

	return e.v.GetString(key)
}

// Set stores value under key and persists the store.
func (e *Engine) Set(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// tolerate a missing file: Set is allowed to create the store
	_ = e.v.ReadInConfig()

	e.v.Set(key, value)
	if err := e.v.WriteConfigAs(e.path); err != nil {
		return fmt.Errorf("error writing policy store: %w", err)
	}

	return nil
}

// Allowed reports whether the operation gated by key may proceed. An
// administrator passes unconditionally; everyone else needs the literal
// value "on".
func (e *Engine) Allowed(key string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return e.Get(key) == ValueOn
}

// SystemName returns the randomized system name, or "vosh" when the store
// has never been initialised.
func (e *Engine) SystemName() string {
	name := e.Get(KeySystemName)
	if name == ValueError || name == "" {
		return "vosh"
	}
	return name
}

// Reset regenerates every default key: operation gates to "on",
// administrative keys to "off", plus a fresh randomized system name, and
// atomically replaces the backing store.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	fresh := viper.New()
	fresh.SetConfigType("yaml")
	for _, key := range OperationKeys {
		fresh.Set(key, ValueOn)
	}
	for _, key := range AdminKeys {
		fresh.Set(key, ValueOff)
	}
	fresh.Set(KeySystemName, randomSystemName())

	// write to a sibling temp file, then rename over the store; the temp
	// name keeps a yaml extension so viper picks the right encoder
	tmp := e.path + ".tmp.yaml"
	if err := fresh.WriteConfigAs(tmp); err != nil {
		return fmt.Errorf("error writing policy defaults: %w", err)
	}
	if err := os.Rename(tmp, e.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error replacing policy store: %w", err)
	}

	e.v = newViper(e.path)
	if err := e.v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reloading policy store: %w", err)
	}

	e.logger.Info().Str("path", filepath.Clean(e.path)).Msg("policy store reset to defaults")
	return nil
}

// randomSystemName derives a short random machine name from a UUID, e.g.
// "vos-1b9d6bcd".
func randomSystemName() string {
	id := uuid.NewString()
	return "vos-" + id[:8]
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON decoding. Duration
// fields use the [Duration] wrapper so "30s"-style strings parse naturally.
type StructuredJSONConfig struct {
	App struct {
		HashPassphrase string `json:"hash_passphrase"`
		Version        string `json:"version"`
	} `json:"app,omitempty"`

	Auth struct {
		MaxAttempts     int      `json:"max_attempts"`
		LockoutCooldown Duration `json:"lockout_cooldown"`
		SelfDeleteGrace Duration `json:"self_delete_grace"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Home struct {
			Root string `json:"root"`
		} `json:"home,omitempty"`

		Policy struct {
			Path string `json:"path"`
		} `json:"policy,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			HashPassphrase: jsonCfg.App.HashPassphrase,
			Version:        jsonCfg.App.Version,
		},
		Auth: Auth{
			MaxAttempts:     jsonCfg.Auth.MaxAttempts,
			LockoutCooldown: time.Duration(jsonCfg.Auth.LockoutCooldown),
			SelfDeleteGrace: time.Duration(jsonCfg.Auth.SelfDeleteGrace),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Home: Home{
				Root: jsonCfg.Storage.Home.Root,
			},
			Policy: Policy{
				Path: jsonCfg.Storage.Policy.Path,
			},
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

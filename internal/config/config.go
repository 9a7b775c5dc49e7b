// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
)

// DefaultManifestName is the token manifest looked up in the working
// directory when BOTSTRAP_MANIFEST is not set.
const DefaultManifestName = "botstrap.toml"

// Config is the top-level configuration container for botstrap. It is
// populated by merging environment variables, the TOML token manifest, and
// built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
//
// All environment lookups additionally carry the global "BOTSTRAP_" prefix.
type Config struct {
	// App holds application-level settings such as the program name used
	// to prefix status lines.
	App App `envPrefix:"APP_"`

	// Storage holds the key file storage settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Log holds diagnostic logging settings.
	Log Log `envPrefix:"LOG_"`

	// ManifestPath is the optional path to the TOML token manifest.
	// When empty, "botstrap.toml" in the working directory is used if it
	// exists; otherwise the built-in dev/prod tokens are registered.
	// Env: BOTSTRAP_MANIFEST
	ManifestPath string `env:"MANIFEST"`

	// Tokens are the token declarations read from the manifest, keyed by
	// uid. Not populated from the environment.
	Tokens map[string]TokenSpec `env:"-"`
}

// App holds application-level configuration values.
type App struct {
	// Name is the program name shown as the prefix on status lines and
	// in prompts.
	// Env: BOTSTRAP_APP_NAME
	Name string `env:"NAME"`

	// Version is the bot's own semantic version, carried into log context
	// so diagnostic entries can be matched to a bot release.
	// Env: BOTSTRAP_APP_VERSION
	Version string `env:"VERSION"`
}

// Storage holds key file storage settings.
type Storage struct {
	// KeysDir is the directory holding encrypted key files for tokens
	// that do not name their own storage directory. When empty, each
	// descriptor falls back to "~/.botstrap_keys".
	// Env: BOTSTRAP_STORAGE_KEYS_DIR
	KeysDir string `env:"KEYS_DIR"`
}

// Log holds diagnostic logging settings.
type Log struct {
	// Level is the zerolog level name ("debug", "info", ...).
	// Env: BOTSTRAP_LOG_LEVEL
	Level string `env:"LEVEL"`
}

// Get loads, merges, and validates the botstrap configuration from all
// available sources in the following priority order (earlier sources win
// for non-zero fields):
//  1. Environment variables
//  2. TOML token manifest (path resolved from source 1)
//  3. Built-in defaults
//
// Returns a fully populated *Config or an error if any source fails to
// load or the final config fails validation.
func Get() (*Config, error) {
	return newConfigBuilder().
		withEnv().
		withManifest().
		withDefaults().
		build()
}

// validate checks the merged configuration for structural problems.
func (c *Config) validate() error {
	if c.Storage.KeysDir != "" {
		if info, err := os.Stat(c.Storage.KeysDir); err == nil && !info.IsDir() {
			return fmt.Errorf("%w: expected a directory, but found a file: %q",
				ErrInvalidStorageConfig, c.Storage.KeysDir)
		}
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		App: App{
			Name:    "bot",
			Version: "0.0.0",
		},
		Log: Log{
			Level: "info",
		},
	}
}

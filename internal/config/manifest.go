// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/nuztalgia/botstrap/internal/secrets"
)

// TokenSpec is one token declaration from the manifest. The manifest is
// how a bot declares its expected tokens without writing any code:
//
//	[app]
//	name = "examplebot"
//
//	[tokens.dev]
//	display_name = "development"
//
//	[tokens.prod]
//	display_name = "production"
//	requires_password = true
//	pattern = "token"
type TokenSpec struct {
	// DisplayName is the human-readable label shown in prompts. Falls
	// back to the uid.
	DisplayName string `toml:"display_name"`

	// RequiresPassword marks the token as password-protected.
	RequiresPassword bool `toml:"requires_password"`

	// StorageDirectory overrides the global keys directory for this
	// token only.
	StorageDirectory string `toml:"storage_directory"`

	// Pattern constrains valid values: the literal "token" selects the
	// built-in bot token format, any other non-empty value is compiled
	// as a regular expression, and empty means length-checking only.
	Pattern string `toml:"pattern"`
}

// manifestFile mirrors the on-disk TOML layout.
type manifestFile struct {
	App struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"app"`
	Tokens map[string]TokenSpec `toml:"tokens"`
}

// parseManifest reads the TOML manifest at path and converts it into a
// partial *Config suitable for merging.
func parseManifest(path string) (*Config, error) {
	var file manifestFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrInvalidManifest, path, err)
	}

	return &Config{
		App: App{
			Name:    file.App.Name,
			Version: file.App.Version,
		},
		ManifestPath: path,
		Tokens:       file.Tokens,
	}, nil
}

// Descriptors converts the manifest's token declarations into secret
// descriptors, sorted by uid. Tokens without their own storage directory
// use Storage.KeysDir (or the per-user default when that is empty too).
// An empty result means no manifest was loaded; callers fall back to the
// default dev/prod registry.
func (c *Config) Descriptors() ([]secrets.Descriptor, error) {
	uids := make([]string, 0, len(c.Tokens))
	for uid := range c.Tokens {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	descriptors := make([]secrets.Descriptor, 0, len(uids))
	for _, uid := range uids {
		spec := c.Tokens[uid]

		dir := spec.StorageDirectory
		if dir == "" {
			dir = c.Storage.KeysDir
		}

		desc, err := secrets.NewDescriptor(uid, spec.DisplayName, spec.RequiresPassword, dir)
		if err != nil {
			return nil, fmt.Errorf("%w: token %q: %v", ErrInvalidManifest, uid, err)
		}

		switch spec.Pattern {
		case "":
		case "token":
			desc.Pattern = secrets.TokenPattern
		default:
			pattern, err := regexp.Compile(spec.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: token %q pattern: %v", ErrInvalidManifest, uid, err)
			}
			desc.Pattern = pattern
		}

		descriptors = append(descriptors, desc)
	}

	return descriptors, nil
}

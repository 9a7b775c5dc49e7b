// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [Config.validate] and the manifest loader.
var (
	// ErrInvalidStorageConfig indicates invalid key storage settings
	// (for example, a keys directory path that points to a file).
	ErrInvalidStorageConfig = errors.New("invalid storage configuration")
	// ErrInvalidManifest indicates a token manifest that cannot be
	// parsed or whose entries are invalid (bad uid, bad pattern).
	ErrInvalidManifest = errors.New("invalid token manifest")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package secrets

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

// keyringFileName is the per-installation salt file created once in each
// storage directory. The salt is not a secret; it exists so that the same
// password always derives the same key on the same machine, while two
// installations never share key material.
const keyringFileName = ".keyring"

const saltLength = 16

// keyDeriver holds the Argon2id tuning parameters. Stored in a struct so
// they can be adjusted per deployment target (e.g. mobile vs. desktop).
type keyDeriver struct {
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// newKeyDeriver returns a keyDeriver with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func newKeyDeriver() keyDeriver {
	return keyDeriver{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// derive computes the 256-bit cipher key from password and the installation
// salt. Password-less secrets pass an empty password, making the salt the
// only key material. The result always has the exact length AES-256
// requires and is never persisted.
func (k keyDeriver) derive(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)
}

// installationSalt returns the per-installation salt for dir, creating both
// the directory and the salt file on first use. Failures are reported as
// ErrStorageIO.
func installationSalt(dir string) ([]byte, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create storage directory: %v", ErrStorageIO, err)
	}

	path := filepath.Join(dir, keyringFileName)
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) != saltLength {
			return nil, fmt.Errorf("%w: keyring file has %d bytes, want %d", ErrStorageIO, len(salt), saltLength)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: read keyring file: %v", ErrStorageIO, err)
	}

	salt = make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate installation salt: %w", err)
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write keyring file: %v", ErrStorageIO, err)
	}

	return salt, nil
}

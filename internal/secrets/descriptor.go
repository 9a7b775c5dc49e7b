// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultStorageDirName is the hidden directory created under the user's
// home directory when a descriptor does not name its own storage location.
const DefaultStorageDirName = ".botstrap_keys"

var uidPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TokenPattern matches the shape of a Discord bot token: three dot-separated
// groups of 24, 6, and 27 word characters or dashes.
var TokenPattern = regexp.MustCompile(`^[\w-]{24}\.[\w-]{6}\.[\w-]{27}$`)

// TokenPlaceholder is the masked stand-in displayed instead of a real token.
var TokenPlaceholder = strings.Join([]string{
	strings.Repeat("*", 24),
	strings.Repeat("*", 6),
	strings.Repeat("*", 27),
}, ".")

// Descriptor identifies one named secret and describes how it is stored.
// Descriptors are immutable once constructed; the process-wide set of them
// lives in the registry package.
type Descriptor struct {
	// UID is the short machine-readable identifier, unique within a
	// registry. It appears in the key file name.
	UID string

	// DisplayName is the human-readable label shown in prompts. Falls
	// back to UID when empty.
	DisplayName string

	// RequiresPassword marks secrets whose derived key must include a
	// user-supplied password. Without it the per-installation salt alone
	// is used, which is convenience rather than real secrecy.
	RequiresPassword bool

	// StorageDirectory is the directory holding this secret's key file.
	StorageDirectory string

	// Pattern optionally constrains valid secret values beyond the
	// minimum-length policy (e.g. TokenPattern for bot tokens).
	Pattern *regexp.Regexp
}

// NewDescriptor validates uid and resolves the storage directory, falling
// back to "~/.botstrap_keys" when dir is empty. The directory itself is
// created lazily on first write.
func NewDescriptor(uid, displayName string, requiresPassword bool, dir string) (Descriptor, error) {
	if !uidPattern.MatchString(uid) {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidUID, uid)
	}

	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Descriptor{}, fmt.Errorf("resolve default key storage directory: %w", err)
		}
		dir = filepath.Join(home, DefaultStorageDirName)
	}

	if displayName == "" {
		displayName = uid
	}

	return Descriptor{
		UID:              uid,
		DisplayName:      displayName,
		RequiresPassword: requiresPassword,
		StorageDirectory: dir,
	}, nil
}

// FilePath returns the deterministic location of this secret's key file:
// "<storage directory>/.<uid>.key".
func (d Descriptor) FilePath() string {
	return filepath.Join(d.StorageDirectory, keyFileName(d.UID))
}

// String returns the display name, making descriptors printable in prompts.
func (d Descriptor) String() string {
	return d.DisplayName
}

func keyFileName(uid string) string {
	return "." + uid + ".key"
}

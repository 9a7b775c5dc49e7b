// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/nuztalgia/botstrap/internal/logger"
)

const (
	// MinimumPasswordLength is the shortest password accepted for
	// password-protected secrets.
	MinimumPasswordLength = 8

	// MinimumValueLength is the shortest secret value accepted by
	// Validate.
	MinimumValueLength = 6
)

// Store provides durable, encrypted-at-rest storage for exactly one named
// secret value. It never prompts or prints; it only returns typed outcomes.
type Store struct {
	desc Descriptor
	kdf  keyDeriver
	log  *logger.Logger
}

// NewStore constructs a Store for the given descriptor. Pass logger.Nop()
// in tests.
func NewStore(desc Descriptor, log *logger.Logger) *Store {
	return &Store{
		desc: desc,
		kdf:  newKeyDeriver(),
		log:  log,
	}
}

// Descriptor returns the descriptor this store persists.
func (s *Store) Descriptor() Descriptor {
	return s.desc
}

// Write encrypts value with the key derived from password (or from the
// installation salt alone, if no password is required) and atomically
// overwrites the key file. Parent directories are created as needed.
func (s *Store) Write(value, password string) error {
	if ok, reason := s.Validate(value); !ok {
		return fmt.Errorf("%w for %q: %s", ErrInvalidValue, s.desc.UID, reason)
	}
	if err := s.checkPassword(password); err != nil {
		return err
	}

	salt, err := installationSalt(s.desc.StorageDirectory)
	if err != nil {
		return err
	}

	blob, err := sealBlob(s.kdf.derive(password, salt), []byte(value), time.Now())
	if err != nil {
		return fmt.Errorf("seal secret %q: %w", s.desc.UID, err)
	}

	if err := writeFileAtomic(s.desc.FilePath(), blob); err != nil {
		return fmt.Errorf("%w: write key file for %q: %v", ErrStorageIO, s.desc.UID, err)
	}

	s.log.Debug().Str("uid", s.desc.UID).Msg("key file written")
	return nil
}

// Read returns the decrypted secret value. The error distinguishes a
// missing file (ErrKeyFileMissing), an unreadable file (ErrStorageIO), a
// file that is not a key blob at all (ErrMalformedBlob), and a wrong key or
// tampered blob (ErrDecryptionFailed).
func (s *Store) Read(password string) (string, error) {
	if err := s.checkPassword(password); err != nil {
		return "", err
	}

	blob, err := os.ReadFile(s.desc.FilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrKeyFileMissing, s.desc.UID)
		}
		return "", fmt.Errorf("%w: read key file for %q: %v", ErrStorageIO, s.desc.UID, err)
	}

	salt, err := installationSalt(s.desc.StorageDirectory)
	if err != nil {
		return "", err
	}

	plaintext, err := openBlob(s.kdf.derive(password, salt), blob)
	if err != nil {
		s.log.Debug().Str("uid", s.desc.UID).Err(err).Msg("key file could not be decrypted")
		return "", err
	}

	return string(plaintext), nil
}

// Clear deletes the key file if present. It is idempotent: clearing a
// secret that has no file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.desc.FilePath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove key file for %q: %v", ErrStorageIO, s.desc.UID, err)
	}
	return nil
}

// Exists reports whether a key file currently exists for this secret.
func (s *Store) Exists() bool {
	return Exists(s.desc)
}

// Validate is a pure predicate for candidate secret values. It returns
// whether the value may be persisted and, when it may not, a human-readable
// reason. It never returns an error.
func (s *Store) Validate(value string) (bool, string) {
	switch {
	case value == "":
		return false, "the value must not be empty"
	case len(value) < MinimumValueLength:
		return false, fmt.Sprintf("the value must be at least %d characters long", MinimumValueLength)
	case s.desc.Pattern != nil && !s.desc.Pattern.MatchString(value):
		return false, "the value does not match the expected token format"
	}
	return true, ""
}

// CreatedAt returns the creation time recorded in the key file header, or
// an error if the file is missing or not a key blob. The timestamp is not
// authenticated until the blob is successfully decrypted, so treat it as
// informational.
func (s *Store) CreatedAt() (time.Time, error) {
	blob, err := os.ReadFile(s.desc.FilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, fmt.Errorf("%w: %q", ErrKeyFileMissing, s.desc.UID)
		}
		return time.Time{}, fmt.Errorf("%w: read key file for %q: %v", ErrStorageIO, s.desc.UID, err)
	}
	return blobCreatedAt(blob)
}

func (s *Store) checkPassword(password string) error {
	if !s.desc.RequiresPassword {
		return nil
	}
	if password == "" {
		return fmt.Errorf("%w: %q", ErrPasswordRequired, s.desc.UID)
	}
	if len(password) < MinimumPasswordLength {
		return fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, MinimumPasswordLength)
	}
	return nil
}

// Exists reports whether a key file exists for the descriptor without
// constructing a Store.
func Exists(desc Descriptor) bool {
	info, err := os.Stat(desc.FilePath())
	return err == nil && info.Mode().IsRegular()
}

// KeyFileInfo describes one file in a storage directory that matches the
// key file naming convention, whether or not a registered descriptor backs
// it.
type KeyFileInfo struct {
	// UID extracted from the file name.
	UID string

	// Path is the full path of the key file.
	Path string

	// CreatedAt is the timestamp from the blob header, or the zero time
	// if the file is not a readable key blob.
	CreatedAt time.Time
}

var keyFileNamePattern = regexp.MustCompile(`^\.([A-Za-z_][A-Za-z0-9_]*)\.key$`)

// ListKeyFiles enumerates every file in dir matching the ".<uid>.key"
// naming convention, sorted by uid. A missing directory yields an empty
// list, not an error. Comparing the result against a registry exposes
// orphaned files left behind by descriptors that are no longer registered.
func ListKeyFiles(dir string) ([]KeyFileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list key files in %q: %v", ErrStorageIO, dir, err)
	}

	var files []KeyFileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := keyFileNamePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		info := KeyFileInfo{UID: m[1], Path: filepath.Join(dir, entry.Name())}
		if blob, err := os.ReadFile(info.Path); err == nil {
			if createdAt, err := blobCreatedAt(blob); err == nil {
				info.CreatedAt = createdAt
			}
		}
		files = append(files, info)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].UID < files[j].UID })
	return files, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".botstrap-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

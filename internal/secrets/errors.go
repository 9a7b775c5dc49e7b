// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package secrets

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageIO indicates that the underlying key file or its directory
	// could not be read or written. Non-retryable from the user's point of
	// view.
	ErrStorageIO = errors.New("key storage I/O failure")

	// ErrKeyFileMissing indicates that no key file exists for the secret.
	ErrKeyFileMissing = errors.New("key file does not exist")

	// ErrDecryptionFailed indicates a wrong key (usually a wrong password)
	// or tampered ciphertext. Recoverable by re-prompting.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedBlob indicates that the key file is not in the expected
	// blob format at all. It wraps ErrDecryptionFailed because callers
	// apply the same retry policy to both conditions.
	ErrMalformedBlob = fmt.Errorf("%w: malformed key file", ErrDecryptionFailed)

	// ErrInvalidUID indicates a uid that is empty or not a valid
	// identifier.
	ErrInvalidUID = errors.New("uid must be a valid non-empty identifier")

	// ErrInvalidValue indicates an attempt to persist a value that fails
	// the secret's validation policy.
	ErrInvalidValue = errors.New("invalid secret value")

	// ErrPasswordRequired indicates a read/write of a password-protected
	// secret without a password.
	ErrPasswordRequired = errors.New("password is required for this secret")

	// ErrPasswordTooShort indicates a password below
	// MinimumPasswordLength.
	ErrPasswordTooShort = errors.New("password is too short")
)

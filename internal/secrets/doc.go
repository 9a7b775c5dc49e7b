// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package secrets implements encrypted-at-rest storage for named secret
// values such as bot tokens.
//
// Each secret is identified by a [Descriptor] and persisted as exactly one
// key file (".<uid>.key") inside the descriptor's storage directory. The
// file holds an AES-256-GCM blob whose key is derived with Argon2id from a
// per-installation salt and an optional user-supplied password. Decrypting
// with the wrong key fails closed: it never yields corrupted plaintext.
//
// Store methods never prompt or print. All interactive behavior lives in the
// resolver package, which keeps this package unit-testable with no I/O
// beyond the file system.
package secrets

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Key file blob layout:
//
//	magic (4B) ‖ created-at unix seconds (8B, big-endian) ‖ nonce (12B) ‖ ciphertext+tag
//
// The magic and timestamp form the GCM additional data, so flipping any
// byte of the header fails authentication the same way ciphertext tampering
// does. The magic lets Read distinguish "not even the right format" from
// "right format, wrong key" without extra metadata.
var blobMagic = []byte("BSK1")

const (
	blobMagicLen     = 4
	blobTimestampLen = 8
	blobHeaderLen    = blobMagicLen + blobTimestampLen
)

// sealBlob encrypts plaintext with key using AES-256-GCM and returns the
// full key file blob. The creation time is stored with second precision.
func sealBlob(key, plaintext []byte, createdAt time.Time) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	header := make([]byte, blobHeaderLen)
	copy(header, blobMagic)
	binary.BigEndian.PutUint64(header[blobMagicLen:], uint64(createdAt.Unix()))

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// header || nonce || ciphertext; the header is authenticated as AAD.
	blob := append(header, nonce...)
	return gcm.Seal(blob, nonce, plaintext, header), nil
}

// openBlob decrypts a key file blob produced by sealBlob. It returns
// ErrMalformedBlob for data that is not in the blob format at all, and
// ErrDecryptionFailed when the key is wrong or the blob has been tampered
// with.
func openBlob(key, blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	if len(blob) < blobHeaderLen+gcm.NonceSize() || !bytes.Equal(blob[:blobMagicLen], blobMagic) {
		return nil, ErrMalformedBlob
	}

	header := blob[:blobHeaderLen]
	nonce := blob[blobHeaderLen : blobHeaderLen+gcm.NonceSize()]
	ciphertext := blob[blobHeaderLen+gcm.NonceSize():]

	// An error here almost always means the user entered a wrong password,
	// producing a wrong key.
	plaintext, err := gcm.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

// blobCreatedAt reads the creation timestamp from the blob header. The
// timestamp is plaintext additional data, so it is readable without the key;
// it is only trustworthy after a successful openBlob.
func blobCreatedAt(blob []byte) (time.Time, error) {
	if len(blob) < blobHeaderLen || !bytes.Equal(blob[:blobMagicLen], blobMagic) {
		return time.Time{}, ErrMalformedBlob
	}
	secs := binary.BigEndian.Uint64(blob[blobMagicLen:blobHeaderLen])
	return time.Unix(int64(secs), 0), nil
}

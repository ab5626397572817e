// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// sealedPrefix marks an on-disk document as encrypted.
// Format: ENC1:base64(salt || nonce || ciphertext).
var sealedPrefix = []byte("ENC1:")

// NonceSize is the size of the nonce/IV for AES-GCM (12 bytes / 96 bits)
const NonceSize = 12

// KeySize is the size of the AES-256 key (32 bytes / 256 bits)
const KeySize = 32

// SaltSize is the size of the salt for key derivation (32 bytes)
const SaltSize = 32

// PBKDF2Iterations is the number of iterations for PBKDF2 key derivation.
// OWASP 2023 recommends 600,000+ for PBKDF2-SHA-256 to provide adequate
// resistance against brute-force attacks with modern hardware.
const PBKDF2Iterations = 600000

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyPassphrase indicates a sealer was requested without a passphrase.
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")
	// ErrInvalidCiphertext indicates the sealed document format is invalid.
	ErrInvalidCiphertext = errors.New("invalid sealed document format")
	// ErrDecryptionFailed indicates decryption failed (wrong passphrase or
	// tampered data).
	ErrDecryptionFailed = errors.New("decryption failed: wrong passphrase or tampered data")
)

// =============================================================================
// SEALER
// =============================================================================

// Sealer encrypts and decrypts the store document with AES-256-GCM.
// The key is derived from the passphrase per sealed document, using the
// salt stored alongside the ciphertext, so a document survives being
// copied between machines.
type Sealer struct {
	passphrase []byte
}

// NewSealer creates a sealer for the given passphrase.
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &Sealer{passphrase: []byte(passphrase)}, nil
}

// IsSealed reports whether data is a sealed store document.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealedPrefix)
}

// Seal encrypts plaintext into the on-disk sealed format.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	aead, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)

	payload := make([]byte, 0, SaltSize+NonceSize+len(sealed))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)

	out := make([]byte, len(sealedPrefix)+base64.StdEncoding.EncodedLen(len(payload)))
	copy(out, sealedPrefix)
	base64.StdEncoding.Encode(out[len(sealedPrefix):], payload)
	return out, nil
}

// Open decrypts a sealed document back into the plaintext JSON.
func (s *Sealer) Open(data []byte) ([]byte, error) {
	if !IsSealed(data) {
		return nil, ErrInvalidCiphertext
	}

	payload, err := base64.StdEncoding.AppendDecode(nil, data[len(sealedPrefix):])
	if err != nil {
		return nil, ErrInvalidCiphertext
	}
	if len(payload) < SaltSize+NonceSize {
		return nil, ErrInvalidCiphertext
	}

	salt := payload[:SaltSize]
	nonce := payload[SaltSize : SaltSize+NonceSize]
	ciphertext := payload[SaltSize+NonceSize:]

	aead, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// aead derives the AES-256 key for the given salt and returns the GCM AEAD.
func (s *Sealer) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(s.passphrase, salt, PBKDF2Iterations, KeySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// zeroBytes zeros sensitive byte slices after use.
// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

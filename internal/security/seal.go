package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// ErrSealedDataInvalid is returned by Open when the data cannot be decrypted
var ErrSealedDataInvalid = errors.New("sealed data is corrupt or the passphrase is wrong")

// Seal encrypts plaintext with a key derived from passphrase.
// The result is base64(salt || nonce || secretbox).
func Seal(passphrase string, plaintext []byte) (string, error) {
	if passphrase == "" {
		return "", errors.New("passphrase is required")
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	key := deriveKey(passphrase, salt)
	out := append(salt, nonce[:]...)
	out = secretbox.Seal(out, plaintext, &nonce, &key)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal
func Open(passphrase, sealed string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, ErrSealedDataInvalid
	}
	if len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return nil, ErrSealedDataInvalid
	}

	salt := raw[:saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])

	key := deriveKey(passphrase, salt)
	plaintext, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, &key)
	if !ok {
		return nil, ErrSealedDataInvalid
	}
	return plaintext, nil
}

// deriveKey stretches the passphrase with argon2id
func deriveKey(passphrase string, salt []byte) [keySize]byte {
	var key [keySize]byte
	copy(key[:], argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, keySize))
	return key
}

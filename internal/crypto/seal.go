// Package crypto seals secrets for the reference backend and generates
// random passwords.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	keyLength = 32
	nonceSize = 12 // GCM standard nonce size
)

var ErrOpen = errors.New("sealed secret cannot be opened")

// GenerateID returns a fresh record id.
func GenerateID() string {
	return uuid.NewString()
}

// GenerateKey returns a URL-safe random key. It travels in the share token
// and is never stored.
func GenerateKey() (string, error) {
	b := make([]byte, keyLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("key generation failed: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func Seal(plaintext []byte, key string) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce generation failed: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. A wrong key and tampered data both yield ErrOpen.
func Open(sealed []byte, key string) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, ErrOpen
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}

func newGCM(key string) (cipher.AEAD, error) {
	hash := sha256.Sum256([]byte(key))

	block, err := aes.NewCipher(hash[:])
	if err != nil {
		return nil, fmt.Errorf("cipher creation failed: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("GCM creation failed: %w", err)
	}
	return gcm, nil
}

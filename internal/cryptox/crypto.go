// Package cryptox wraps AES-256-GCM authenticated encryption for the
// container pipelines.
//
// An authentication failure on decrypt is reported as
// common.ErrWrongPassword: a wrong password and a tampered container are
// deliberately indistinguishable, since telling them apart would leak
// information to an attacker.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/resqrypt/resqrypt/internal/common"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// NonceSize is the GCM nonce length in bytes.
	NonceSize = 12
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

// GenerateNonce returns NonceSize cryptographically random bytes. A fresh
// nonce is generated per encryption; the (key, nonce) pair must never be
// reused.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: nonce generation: %v", common.ErrCrypto, err)
	}
	return nonce, nil
}

func newGCM(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrCrypto, KeySize, len(key))
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrCrypto, NonceSize, len(nonce))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	return aesgcm, nil
}

// Encrypt seals plaintext with AES-256-GCM. The output is
// len(plaintext)+TagSize bytes.
func Encrypt(key, nonce, plaintext []byte) ([]byte, error) {
	aesgcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return aesgcm.Seal(nil, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext sealed by Encrypt. Ciphertext shorter than the
// authentication tag fails fast with common.ErrCrypto before the cipher is
// touched; an authentication failure is reported as common.ErrWrongPassword.
func Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext too short (%d bytes)", common.ErrCrypto, len(ciphertext))
	}
	aesgcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrWrongPassword
	}
	return plaintext, nil
}

// Package kdf derives encryption keys from passwords using Argon2id.
//
// The cost parameters travel inside the container header, so decryption
// always reproduces the exact key derivation the encryptor chose, even if
// the defaults change in later releases.
package kdf

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/resqrypt/resqrypt/internal/common"
)

const (
	// SaltSize is the salt length in bytes.
	SaltSize = 32
	// KeySize is the derived key length in bytes (AES-256).
	KeySize = 32

	// Default Argon2id cost parameters.
	DefaultMemoryKiB   uint32 = 64 * 1024
	DefaultTime        uint32 = 3
	DefaultParallelism uint32 = 4

	// argon2 takes the thread count as uint8.
	maxParallelism = 255
)

// Params holds the Argon2id cost parameters for one container. Immutable
// once written into a header.
type Params struct {
	// MemoryKiB is the memory cost in KiB.
	MemoryKiB uint32
	// Time is the iteration count.
	Time uint32
	// Parallelism is the lane count.
	Parallelism uint32
}

// DefaultParams returns the standard cost parameters (64 MiB, 3 iterations,
// 4 lanes).
func DefaultParams() Params {
	return Params{
		MemoryKiB:   DefaultMemoryKiB,
		Time:        DefaultTime,
		Parallelism: DefaultParallelism,
	}
}

// Validate rejects parameter combinations the underlying Argon2
// implementation does not accept. x/crypto/argon2 panics on a zero time or
// thread count and silently clamps too-small memory; both are reported here
// as common.ErrCrypto instead.
func (p Params) Validate() error {
	if p.Time < 1 {
		return fmt.Errorf("%w: argon2 time cost must be at least 1", common.ErrCrypto)
	}
	if p.Parallelism < 1 || p.Parallelism > maxParallelism {
		return fmt.Errorf("%w: argon2 parallelism must be in [1, %d], got %d",
			common.ErrCrypto, maxParallelism, p.Parallelism)
	}
	if p.MemoryKiB < 8*p.Parallelism {
		return fmt.Errorf("%w: argon2 memory cost %d KiB too small for parallelism %d (minimum %d KiB)",
			common.ErrCrypto, p.MemoryKiB, p.Parallelism, 8*p.Parallelism)
	}
	return nil
}

// GenerateSalt returns SaltSize cryptographically random bytes. Each
// encryption uses a fresh salt; reuse across containers with the same
// password would correlate the derived keys.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: salt generation: %v", common.ErrCrypto, err)
	}
	return salt, nil
}

// DeriveKey runs Argon2id over the password with the given salt and cost
// parameters, producing a KeySize-byte key. Deterministic: the same
// (password, salt, params) always yields the same key.
func DeriveKey(password, salt []byte, p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", common.ErrCrypto, SaltSize, len(salt))
	}
	return argon2.IDKey(password, salt, p.Time, p.MemoryKiB, uint8(p.Parallelism), KeySize), nil
}

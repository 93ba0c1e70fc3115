// Package common contains shared constants, sentinel errors and small
// helpers used across resqrypt components. Callers should use errors.Is
// to match the sentinel values.
package common

import "errors"

var (
	// Format errors (bad magic, unsupported version).
	ErrInvalidFormat = errors.New("invalid file format")

	// Crypto errors (malformed key material, KDF parameters out of range,
	// ciphertext shorter than the authentication tag).
	ErrCrypto = errors.New("cryptographic operation failed")

	// ErrWrongPassword is the single signal for an AEAD authentication
	// failure. Wrong password and tampered ciphertext are deliberately
	// indistinguishable.
	ErrWrongPassword = errors.New("wrong password or corrupted data")

	// Compression errors (malformed zstd stream).
	ErrCompression = errors.New("compression error")

	// Archive errors (malformed tar entry, traversal failure).
	ErrArchive = errors.New("archive error")

	// Path precondition errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument covers caller mistakes such as archiving a
	// path that is not a directory.
	ErrInvalidArgument = errors.New("invalid argument")
)

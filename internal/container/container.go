// Package container implements the on-disk resqrypt format: a fixed 66-byte
// header followed by AES-GCM ciphertext of unbounded length.
//
// Header layout (integers little-endian):
//
//	offset size field
//	0      8    magic "RESQRYPT"
//	8      1    format version (currently 1)
//	9      1    flags (bit0 already-zstd, bit1 is-directory)
//	10     4    argon2 memory cost, KiB
//	14     4    argon2 time cost
//	18     4    argon2 parallelism
//	22     32   salt
//	54     12   nonce
//
// There is no ciphertext length prefix: everything after the header is
// ciphertext.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/resqrypt/resqrypt/internal/common"
	"github.com/resqrypt/resqrypt/internal/cryptox"
	"github.com/resqrypt/resqrypt/internal/kdf"
)

// Magic identifies a resqrypt container.
var Magic = []byte("RESQRYPT")

// Version is the current (and only supported) format version. Unknown
// versions are rejected outright; there is no forward-compatibility parsing.
const Version byte = 1

// HeaderSize is the exact serialized header length in bytes.
const HeaderSize = 8 + 1 + 1 + 4 + 4 + 4 + kdf.SaltSize + cryptox.NonceSize

// Flags is the header bitset.
type Flags byte

const (
	// FlagAlreadyZstd marks a payload that carried the zstd magic before
	// encryption, so no compression step was applied.
	FlagAlreadyZstd Flags = 1 << 0
	// FlagIsDirectory marks a payload that is a packed directory tree.
	FlagIsDirectory Flags = 1 << 1
)

// Header carries everything decryption needs besides the password. Created
// once at encrypt time, parsed once at decrypt time, never mutated.
type Header struct {
	Version byte
	Flags   Flags
	Params  kdf.Params
	Salt    []byte
	Nonce   []byte
}

// NewHeader builds a current-version header, validating the salt and nonce
// lengths.
func NewHeader(flags Flags, params kdf.Params, salt, nonce []byte) (Header, error) {
	if len(salt) != kdf.SaltSize {
		return Header{}, fmt.Errorf("%w: salt must be %d bytes, got %d", common.ErrCrypto, kdf.SaltSize, len(salt))
	}
	if len(nonce) != cryptox.NonceSize {
		return Header{}, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrCrypto, cryptox.NonceSize, len(nonce))
	}
	return Header{
		Version: Version,
		Flags:   flags,
		Params:  params,
		Salt:    salt,
		Nonce:   nonce,
	}, nil
}

// AlreadyZstd reports whether the payload was already a zstd stream before
// encryption.
func (h Header) AlreadyZstd() bool { return h.Flags&FlagAlreadyZstd != 0 }

// IsDirectory reports whether the payload is a packed directory tree.
func (h Header) IsDirectory() bool { return h.Flags&FlagIsDirectory != 0 }

// Marshal serializes the header into exactly HeaderSize bytes.
func (h Header) Marshal() []byte {
	buf := make([]byte, 0, HeaderSize)
	buf = append(buf, Magic...)
	buf = append(buf, h.Version, byte(h.Flags))
	buf = binary.LittleEndian.AppendUint32(buf, h.Params.MemoryKiB)
	buf = binary.LittleEndian.AppendUint32(buf, h.Params.Time)
	buf = binary.LittleEndian.AppendUint32(buf, h.Params.Parallelism)
	buf = append(buf, h.Salt...)
	buf = append(buf, h.Nonce...)
	return buf
}

// ReadHeader reads and validates a header from r. Bad magic and unsupported
// versions are reported as common.ErrInvalidFormat before anything else is
// consumed.
func ReadHeader(r io.Reader) (Header, error) {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return Header{}, fmt.Errorf("%w: not a resqrypt file: %v", common.ErrInvalidFormat, err)
	}
	if !bytes.Equal(magic, Magic) {
		return Header{}, fmt.Errorf("%w: not a resqrypt file (invalid magic bytes)", common.ErrInvalidFormat)
	}

	rest := make([]byte, HeaderSize-len(Magic))
	if _, err := io.ReadFull(r, rest); err != nil {
		return Header{}, fmt.Errorf("%w: truncated header: %v", common.ErrInvalidFormat, err)
	}

	version := rest[0]
	if version != Version {
		return Header{}, fmt.Errorf("%w: unsupported format version %d (expected %d)",
			common.ErrInvalidFormat, version, Version)
	}

	h := Header{
		Version: version,
		Flags:   Flags(rest[1]),
		Params: kdf.Params{
			MemoryKiB:   binary.LittleEndian.Uint32(rest[2:6]),
			Time:        binary.LittleEndian.Uint32(rest[6:10]),
			Parallelism: binary.LittleEndian.Uint32(rest[10:14]),
		},
		Salt:  bytes.Clone(rest[14 : 14+kdf.SaltSize]),
		Nonce: bytes.Clone(rest[14+kdf.SaltSize:]),
	}
	return h, nil
}

// ParseHeader is ReadHeader over an in-memory container.
func ParseHeader(data []byte) (Header, error) {
	return ReadHeader(bytes.NewReader(data))
}

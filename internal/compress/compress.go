// Package compress provides whole-buffer zstd compression for the container
// pipelines, plus a magic-byte sniffer used to avoid compressing payloads
// that are already zstd frames.
package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/resqrypt/resqrypt/internal/common"
)

// zstdMagic is the frame marker at the start of every zstd stream.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// defaultLevel balances speed and ratio (zstd level 3).
const defaultLevel = 3

// IsZstd reports whether data begins with the zstd frame magic. Inputs
// shorter than the magic are never zstd. This is a sniff only; it does not
// validate the rest of the stream.
func IsZstd(data []byte) bool {
	if len(data) < len(zstdMagic) {
		return false
	}
	return bytes.Equal(data[:len(zstdMagic)], zstdMagic)
}

// Compress encodes data as a single zstd frame at the default level. Empty
// input yields a valid empty frame that decompresses back to empty.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(defaultLevel)),
		zstd.WithZeroFrames(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCompression, err)
	}
	out := enc.EncodeAll(data, nil)
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCompression, err)
	}
	return out, nil
}

// Decompress decodes a zstd stream produced by Compress (or any other zstd
// encoder). Malformed input is reported as common.ErrCompression.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCompression, err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCompression, err)
	}
	return out, nil
}

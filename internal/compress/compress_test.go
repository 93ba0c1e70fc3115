package compress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/resqrypt/resqrypt/internal/common"
)

func TestCompressDecompress_RoundTrip(t *testing.T) {
	original := []byte("Hello, World! This is some test data for compression.")

	compressed, err := Compress(original)
	require.NoError(t, err)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, original, decompressed)
}

func TestCompress_ReducesSize(t *testing.T) {
	original := bytes.Repeat([]byte{'A'}, 10000)

	compressed, err := Compress(original)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(original))
}

func TestCompressDecompress_Empty(t *testing.T) {
	compressed, err := Compress(nil)
	require.NoError(t, err)
	require.True(t, IsZstd(compressed), "empty input must still produce a zstd frame")

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	require.Empty(t, decompressed)
}

func TestCompressDecompress_Large(t *testing.T) {
	original := bytes.Repeat([]byte{0xAB}, 1024*1024)

	compressed, err := Compress(original)
	require.NoError(t, err)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, original, decompressed)
}

func TestDecompress_InvalidStream(t *testing.T) {
	_, err := Decompress([]byte("this is not zstd compressed data"))
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrCompression))
}

func TestIsZstd(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"magic prefix", []byte{0x28, 0xB5, 0x2F, 0xFD, 0x00, 0x00}, true},
		{"plain text", []byte("Hello, World!"), false},
		{"too short", []byte{0x28, 0xB5, 0x2F}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsZstd(tt.data))
		})
	}
}

func TestIsZstd_ActualOutput(t *testing.T) {
	compressed, err := Compress([]byte("test data for compression"))
	require.NoError(t, err)
	require.True(t, IsZstd(compressed))
}

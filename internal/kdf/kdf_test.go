package kdf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/resqrypt/resqrypt/internal/common"
)

// fastParams keeps key derivation cheap in tests.
var fastParams = Params{MemoryKiB: 8 * 1024, Time: 1, Parallelism: 2}

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := make([]byte, SaltSize)

	key1, err := DeriveKey(password, salt, fastParams)
	require.NoError(t, err)
	key2, err := DeriveKey(password, salt, fastParams)
	require.NoError(t, err)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	require.Len(t, key1, KeySize)
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")
	salt1 := bytes.Repeat([]byte{1}, SaltSize)
	salt2 := bytes.Repeat([]byte{2}, SaltSize)

	key1, err := DeriveKey(password, salt1, fastParams)
	require.NoError(t, err)
	key2, err := DeriveKey(password, salt2, fastParams)
	require.NoError(t, err)

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestDeriveKey_DifferentPasswords(t *testing.T) {
	salt := make([]byte, SaltSize)

	key1, err := DeriveKey([]byte("password1"), salt, fastParams)
	require.NoError(t, err)
	key2, err := DeriveKey([]byte("password2"), salt, fastParams)
	require.NoError(t, err)

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different passwords, got same")
	}
}

func TestDeriveKey_BadSaltLength(t *testing.T) {
	_, err := DeriveKey([]byte("pw"), []byte("short"), fastParams)
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrCrypto))
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"defaults", DefaultParams(), false},
		{"custom small but valid", Params{MemoryKiB: 32 * 1024, Time: 2, Parallelism: 2}, false},
		{"zero time", Params{MemoryKiB: 64 * 1024, Time: 0, Parallelism: 4}, true},
		{"zero parallelism", Params{MemoryKiB: 64 * 1024, Time: 3, Parallelism: 0}, true},
		{"parallelism above uint8", Params{MemoryKiB: 64 * 1024, Time: 3, Parallelism: 256}, true},
		{"memory below 8x lanes", Params{MemoryKiB: 16, Time: 3, Parallelism: 4}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, common.ErrCrypto))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGenerateSalt(t *testing.T) {
	s1, err := GenerateSalt()
	require.NoError(t, err)
	require.Len(t, s1, SaltSize)

	s2, err := GenerateSalt()
	require.NoError(t, err)

	if bytes.Equal(s1, s2) {
		t.Logf("warning: two generated salts are identical; extremely unlikely")
	}
}

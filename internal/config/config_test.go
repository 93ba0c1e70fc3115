package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resqrypt/resqrypt/internal/kdf"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, kdf.DefaultParams(), c.KdfParams)
	assert.False(t, c.Verbose)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"resqrypt", "encrypt", "-memory", "32", "-iterations", "2", "-parallelism", "2", "-verbose"}

	cfg := LoadConfig()
	assert.Equal(t, uint32(32*1024), cfg.KdfParams.MemoryKiB)
	assert.Equal(t, uint32(2), cfg.KdfParams.Time)
	assert.Equal(t, uint32(2), cfg.KdfParams.Parallelism)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"argon2_memory_kib": 16384, "argon2_iterations": 5}`), 0o600))

	os.Args = []string{"resqrypt", "encrypt", "-c", path}

	cfg := LoadConfig()
	assert.Equal(t, uint32(16384), cfg.KdfParams.MemoryKiB)
	assert.Equal(t, uint32(5), cfg.KdfParams.Time)
	// Fields absent from the JSON keep their defaults.
	assert.Equal(t, kdf.DefaultParallelism, cfg.KdfParams.Parallelism)
}

func TestLoadConfig_FlagsWinOverJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"argon2_iterations": 5}`), 0o600))

	os.Args = []string{"resqrypt", "encrypt", "-c", path, "-iterations", "7"}

	cfg := LoadConfig()
	assert.Equal(t, uint32(7), cfg.KdfParams.Time)
}

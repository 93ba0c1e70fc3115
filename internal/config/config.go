// Package config handles runtime configuration for the resqrypt CLI,
// including defaults, JSON overlay, and command-line flags.
package config

import "github.com/resqrypt/resqrypt/internal/kdf"

// Config holds runtime settings for one resqrypt invocation.
//
// Fields:
//   - KdfParams: Argon2id cost parameters used at encrypt time. Decryption
//     ignores them and uses the parameters stored in the container header.
//   - Verbose: enables stage progress output and the final summary.
type Config struct {
	KdfParams kdf.Params
	Verbose   bool
}

// LoadDefaults populates c with the standard cost parameters
// (64 MiB memory, 3 iterations, 4 lanes).
func (c *Config) LoadDefaults() {
	c.KdfParams = kdf.DefaultParams()
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

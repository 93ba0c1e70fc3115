package config

import (
	"encoding/json"
	"os"

	"github.com/resqrypt/resqrypt/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Memory is
// given in KiB, matching the value stored in the container header.
type JsonConfig struct {
	Argon2MemoryKiB   uint32 `json:"argon2_memory_kib"`
	Argon2Iterations  uint32 `json:"argon2_iterations"`
	Argon2Parallelism uint32 `json:"argon2_parallelism"`
	Verbose           bool   `json:"verbose"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields actually present (non-zero) in the JSON override the defaults,
// so a partial file leaves the rest untouched. Panics on read or unmarshal
// errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Argon2MemoryKiB != 0 {
		cfg.KdfParams.MemoryKiB = jc.Argon2MemoryKiB
	}
	if jc.Argon2Iterations != 0 {
		cfg.KdfParams.Time = jc.Argon2Iterations
	}
	if jc.Argon2Parallelism != 0 {
		cfg.KdfParams.Parallelism = jc.Argon2Parallelism
	}
	if jc.Verbose {
		cfg.Verbose = true
	}
}

package config

import (
	"flag"
	"os"

	"github.com/resqrypt/resqrypt/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-memory int        Argon2id memory cost in MiB (default from Config)
//	-iterations int    Argon2id iteration count
//	-parallelism int   Argon2id parallelism degree
//	-verbose           show stage progress and a final summary
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so the subcommand flags handled elsewhere do not
// interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-memory", "-iterations", "-parallelism", "-verbose"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	memoryMiB := fs.Uint("memory", uint(cfg.KdfParams.MemoryKiB/1024), "argon2id memory cost in MiB")
	iterations := fs.Uint("iterations", uint(cfg.KdfParams.Time), "argon2id iteration count")
	parallelism := fs.Uint("parallelism", uint(cfg.KdfParams.Parallelism), "argon2id parallelism degree")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "show progress and summary")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.KdfParams.MemoryKiB = uint32(*memoryMiB) * 1024
	cfg.KdfParams.Time = uint32(*iterations)
	cfg.KdfParams.Parallelism = uint32(*parallelism)
}

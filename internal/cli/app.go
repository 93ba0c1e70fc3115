package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/resqrypt/resqrypt/internal/buildinfo"
	"github.com/resqrypt/resqrypt/internal/common"
	"github.com/resqrypt/resqrypt/internal/config"
	"github.com/resqrypt/resqrypt/internal/flagx"
	"github.com/resqrypt/resqrypt/internal/logging"
	"github.com/resqrypt/resqrypt/internal/pipeline"
)

// PasswordEnvVar names the environment variable consulted when no -p flag
// is given.
const PasswordEnvVar = "RESQRYPT_PASSWORD"

// App dispatches resqrypt subcommands.
type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer // user-facing messages
}

// NewApp wires an App. Messages go to out (usually stderr, keeping stdout
// clean for shell composition).
func NewApp(cfg *config.Config, log logging.Logger, out io.Writer) *App {
	return &App{config: cfg, log: log, out: out}
}

// Run executes the subcommand named by args (os.Args[1:]) and returns its
// error; the caller maps a non-nil error to a non-zero exit status.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return fmt.Errorf("%w: no command specified", common.ErrInvalidArgument)
	}

	switch args[0] {
	case "encrypt":
		return a.runEncrypt(ctx)
	case "decrypt":
		return a.runDecrypt(ctx)
	case "version":
		buildinfo.PrintBuildData(a.out)
		return nil
	case "help", "-h", "--help":
		a.printUsage()
		return nil
	default:
		a.printUsage()
		return fmt.Errorf("%w: unknown command: %s", common.ErrInvalidArgument, args[0])
	}
}

// ioArgs extracts the -i/-o/-p flags shared by both subcommands. Other flags
// on the command line belong to the config package and are filtered out.
func ioArgs(name string) (input, output, password string, err error) {
	args := flagx.FilterArgs(os.Args[2:], []string{"-i", "-input", "-o", "-output", "-p", "-password"})

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&input, "i", "", "input path")
	fs.StringVar(&input, "input", "", "input path")
	fs.StringVar(&output, "o", "", "output path")
	fs.StringVar(&output, "output", "", "output path")
	fs.StringVar(&password, "p", "", "password (prompted when omitted)")
	fs.StringVar(&password, "password", "", "password (prompted when omitted)")

	if err := fs.Parse(args); err != nil {
		return "", "", "", err
	}
	if input == "" {
		return "", "", "", fmt.Errorf("%w: input path is required (-i)", common.ErrInvalidArgument)
	}
	if output == "" {
		return "", "", "", fmt.Errorf("%w: output path is required (-o)", common.ErrInvalidArgument)
	}
	return input, output, password, nil
}

// resolvePassword applies the resolution order: flag, environment variable,
// interactive prompt. confirm enables the double-entry prompt used when
// encrypting.
func (a *App) resolvePassword(flagValue string, confirm bool) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}
	if env := os.Getenv(PasswordEnvVar); env != "" {
		return []byte(env), nil
	}
	if confirm {
		return getPasswordWithConfirm(a.out)
	}
	return getPassword(a.out, "Enter decryption password: ")
}

func (a *App) reporter() pipeline.Reporter {
	if !a.config.Verbose {
		return pipeline.NopReporter()
	}
	return &writerReporter{w: a.out}
}

func (a *App) runEncrypt(ctx context.Context) error {
	input, output, pwFlag, err := ioArgs("encrypt")
	if err != nil {
		return err
	}

	password, err := a.resolvePassword(pwFlag, true)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	enc := pipeline.NewEncryptor(a.config, a.log, a.reporter())
	sum, err := enc.Run(ctx, input, output, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Encrypted: %s -> %s\n", input, output)
	if a.config.Verbose {
		fmt.Fprintf(a.out, "  Input: %d bytes, Output: %d bytes (%.1f%%)\n",
			sum.InputBytes, sum.OutputBytes, sum.RatioPercent())
		if sum.AlreadyZstd {
			fmt.Fprintln(a.out, "  Payload was already zstd; compression skipped")
		}
	}
	return nil
}

func (a *App) runDecrypt(ctx context.Context) error {
	input, output, pwFlag, err := ioArgs("decrypt")
	if err != nil {
		return err
	}

	password, err := a.resolvePassword(pwFlag, false)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	dec := pipeline.NewDecryptor(a.log, a.reporter())
	sum, err := dec.Run(ctx, input, output, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Decrypted: %s -> %s\n", input, output)
	if a.config.Verbose {
		fmt.Fprintf(a.out, "  Input: %d bytes, Output: %d bytes\n", sum.InputBytes, sum.OutputBytes)
		if sum.IsDirectory {
			fmt.Fprintln(a.out, "  Type: directory (extracted from archive)")
		} else {
			fmt.Fprintln(a.out, "  Type: file")
		}
	}
	return nil
}

func (a *App) printUsage() {
	fmt.Fprint(a.out, `resqrypt - secure file and directory encryption

USAGE:
    resqrypt <command> [options]

COMMANDS:
    encrypt     Encrypt a file or directory into a .resqrypt container
    decrypt     Decrypt a .resqrypt container
    version     Show build information
    help        Show this help message

OPTIONS:
    -i path         input file or directory
    -o path         output path (must not exist)
    -p password     password (prompted interactively when omitted)
    -memory N       argon2id memory cost in MiB (default 64)
    -iterations N   argon2id iteration count (default 3)
    -parallelism N  argon2id parallelism degree (default 4)
    -c path         JSON config file
    -verbose        show progress and a summary

PASSWORD:
    Set `+PasswordEnvVar+`, pass -p, or enter interactively.

`)
}

// writerReporter prints pipeline stage messages to a writer.
type writerReporter struct {
	w io.Writer
}

func (r *writerReporter) Step(msg string) { fmt.Fprintln(r.w, msg) }
func (r *writerReporter) Done(msg string) { fmt.Fprintln(r.w, msg) }

// Package pipeline orchestrates the resqrypt transform chains.
//
// Encrypt: read (pack directories) → compress (skipped for payloads already
// in zstd format) → derive key → seal → write header + ciphertext.
// Decrypt mirrors the chain in reverse, driven entirely by the container
// header.
//
// Each run is synchronous and owns its buffers end to end; the whole payload
// is held in memory. Output-path existence is checked once up front, so a
// race between check and write remains possible (accepted limitation).
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/resqrypt/resqrypt/internal/archive"
	"github.com/resqrypt/resqrypt/internal/common"
	"github.com/resqrypt/resqrypt/internal/compress"
	"github.com/resqrypt/resqrypt/internal/config"
	"github.com/resqrypt/resqrypt/internal/container"
	"github.com/resqrypt/resqrypt/internal/cryptox"
	"github.com/resqrypt/resqrypt/internal/filex"
	"github.com/resqrypt/resqrypt/internal/kdf"
	"github.com/resqrypt/resqrypt/internal/logging"
)

// Encryptor runs the encrypt pipeline with a fixed configuration.
type Encryptor struct {
	cfg *config.Config
	log logging.Logger
	rep Reporter
}

// NewEncryptor wires an Encryptor. A nil reporter is replaced with a no-op.
func NewEncryptor(cfg *config.Config, log logging.Logger, rep Reporter) *Encryptor {
	if rep == nil {
		rep = NopReporter()
	}
	return &Encryptor{cfg: cfg, log: log, rep: rep}
}

// Run encrypts inputPath (file or directory) into a container at outputPath.
// The input must exist and the output must not; both are checked before any
// work is done. The caller keeps ownership of password and should wipe it
// afterwards.
func (e *Encryptor) Run(ctx context.Context, inputPath, outputPath string, password []byte) (*Summary, error) {
	if err := checkPaths(inputPath, outputPath); err != nil {
		return nil, err
	}

	// Read. Directories are packed into a single tar stream.
	e.rep.Step("Reading input...")
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", inputPath, err)
	}

	var flags container.Flags
	var data []byte
	if info.IsDir() {
		e.log.Debug(ctx, "packing directory", "path", inputPath)
		flags |= container.FlagIsDirectory
		data, err = archive.Pack(inputPath)
	} else {
		data, err = filex.ReadFile(inputPath)
	}
	if err != nil {
		return nil, err
	}
	inputBytes := len(data)

	// Transform. Payloads already in zstd format are passed through so
	// decryption can restore them byte-exact.
	if compress.IsZstd(data) {
		e.rep.Step("Detected zstd format, skipping compression...")
		e.log.Debug(ctx, "payload already zstd, skipping compression", "bytes", inputBytes)
		flags |= container.FlagAlreadyZstd
	} else {
		e.rep.Step("Compressing...")
		data, err = compress.Compress(data)
		if err != nil {
			return nil, err
		}
		e.log.Debug(ctx, "compressed", "from", inputBytes, "to", len(data))
	}

	// Derive a fresh key from a fresh salt.
	e.rep.Step("Deriving encryption key...")
	params := e.cfg.KdfParams
	salt, err := kdf.GenerateSalt()
	if err != nil {
		return nil, err
	}
	key, err := kdf.DeriveKey(password, salt, params)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	// Seal.
	e.rep.Step("Encrypting...")
	nonce, err := cryptox.GenerateNonce()
	if err != nil {
		return nil, err
	}
	ciphertext, err := cryptox.Encrypt(key, nonce, data)
	if err != nil {
		return nil, err
	}

	// Write the whole container in one call.
	e.rep.Step("Writing output...")
	header, err := container.NewHeader(flags, params, salt, nonce)
	if err != nil {
		return nil, err
	}
	out := append(header.Marshal(), ciphertext...)
	if err := filex.WriteFile(outputPath, out); err != nil {
		return nil, err
	}

	e.log.Info(ctx, "encrypted", "input", inputPath, "output", outputPath,
		"in_bytes", inputBytes, "out_bytes", len(out))
	e.rep.Done("Done!")

	return &Summary{
		InputBytes:  inputBytes,
		OutputBytes: len(out),
		IsDirectory: flags&container.FlagIsDirectory != 0,
		AlreadyZstd: flags&container.FlagAlreadyZstd != 0,
	}, nil
}

// checkPaths enforces the shared pipeline preconditions: the input path must
// exist and the output path must not. No implicit overwrite.
func checkPaths(inputPath, outputPath string) error {
	ok, err := filex.Exists(inputPath)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrNotFound, inputPath)
	}

	ok, err = filex.Exists(outputPath)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, outputPath)
	}
	return nil
}

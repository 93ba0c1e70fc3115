package pipeline

import (
	"context"

	"github.com/resqrypt/resqrypt/internal/archive"
	"github.com/resqrypt/resqrypt/internal/common"
	"github.com/resqrypt/resqrypt/internal/compress"
	"github.com/resqrypt/resqrypt/internal/container"
	"github.com/resqrypt/resqrypt/internal/cryptox"
	"github.com/resqrypt/resqrypt/internal/filex"
	"github.com/resqrypt/resqrypt/internal/kdf"
	"github.com/resqrypt/resqrypt/internal/logging"
)

// Decryptor runs the decrypt pipeline. It carries no KDF configuration: the
// container header is the sole authority on derivation parameters.
type Decryptor struct {
	log logging.Logger
	rep Reporter
}

// NewDecryptor wires a Decryptor. A nil reporter is replaced with a no-op.
func NewDecryptor(log logging.Logger, rep Reporter) *Decryptor {
	if rep == nil {
		rep = NopReporter()
	}
	return &Decryptor{log: log, rep: rep}
}

// Run decrypts the container at inputPath to outputPath (a file, or a
// directory when the container holds a packed tree). No output is written
// until parsing, key derivation and authentication have all succeeded.
func (d *Decryptor) Run(ctx context.Context, inputPath, outputPath string, password []byte) (*Summary, error) {
	if err := checkPaths(inputPath, outputPath); err != nil {
		return nil, err
	}

	// Parse. Header validation aborts before the ciphertext is touched.
	d.rep.Step("Reading encrypted file...")
	raw, err := filex.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}
	header, err := container.ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	ciphertext := raw[container.HeaderSize:]

	// Derive the key with the parameters and salt the encryptor recorded.
	d.rep.Step("Deriving decryption key...")
	d.log.Debug(ctx, "deriving key", "memory_kib", header.Params.MemoryKiB,
		"iterations", header.Params.Time, "parallelism", header.Params.Parallelism)
	key, err := kdf.DeriveKey(password, header.Salt, header.Params)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	// Open. An authentication failure is the single wrong-password signal.
	d.rep.Step("Decrypting...")
	payload, err := cryptox.Decrypt(key, header.Nonce, ciphertext)
	if err != nil {
		return nil, err
	}

	// Restore. Payloads flagged as originally-zstd are kept byte-exact.
	if header.AlreadyZstd() {
		d.rep.Step("Original was zstd, preserving format...")
	} else {
		d.rep.Step("Decompressing...")
		payload, err = compress.Decompress(payload)
		if err != nil {
			return nil, err
		}
	}

	// Write.
	d.rep.Step("Writing output...")
	if header.IsDirectory() {
		if err := archive.Unpack(payload, outputPath); err != nil {
			return nil, err
		}
	} else {
		if err := filex.WriteFile(outputPath, payload); err != nil {
			return nil, err
		}
	}

	d.log.Info(ctx, "decrypted", "input", inputPath, "output", outputPath,
		"in_bytes", len(raw), "out_bytes", len(payload))
	d.rep.Done("Done!")

	return &Summary{
		InputBytes:  len(raw),
		OutputBytes: len(payload),
		IsDirectory: header.IsDirectory(),
		AlreadyZstd: header.AlreadyZstd(),
	}, nil
}

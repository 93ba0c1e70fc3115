// Package archive packs a directory tree into a tar byte stream and unpacks
// it again. Entries are stored under a synthetic root named after the source
// directory, so extraction recreates a same-named top-level directory rather
// than spilling its contents into the destination.
package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/resqrypt/resqrypt/internal/common"
)

// Pack walks sourceDir (lexical order, symbolic links are not followed) and
// produces a tar stream with every directory and regular file recorded
// relative to filepath.Base(sourceDir). Irregular entries such as symlinks
// and devices are skipped. Fails with common.ErrInvalidArgument if sourceDir
// is not a directory.
func Pack(sourceDir string) ([]byte, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, sourceDir)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", common.ErrArchive, sourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: source is not a directory: %s", common.ErrInvalidArgument, sourceDir)
	}

	root := filepath.Base(filepath.Clean(sourceDir))

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	walkErr := filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk %s: %v", common.ErrArchive, p, err)
		}

		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return fmt.Errorf("%w: relative path for %s: %v", common.ErrArchive, p, err)
		}
		// The root directory itself is implied by the synthetic root.
		if rel == "." {
			return nil
		}

		name := path.Join(root, filepath.ToSlash(rel))

		switch {
		case d.IsDir():
			fi, err := d.Info()
			if err != nil {
				return fmt.Errorf("%w: stat %s: %v", common.ErrArchive, p, err)
			}
			hdr := &tar.Header{
				Typeflag: tar.TypeDir,
				Name:     name + "/",
				Mode:     int64(fi.Mode().Perm()),
				ModTime:  fi.ModTime(),
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return fmt.Errorf("%w: add dir %s: %v", common.ErrArchive, name, err)
			}

		case d.Type().IsRegular():
			fi, err := d.Info()
			if err != nil {
				return fmt.Errorf("%w: stat %s: %v", common.ErrArchive, p, err)
			}
			hdr, err := tar.FileInfoHeader(fi, "")
			if err != nil {
				return fmt.Errorf("%w: header for %s: %v", common.ErrArchive, name, err)
			}
			hdr.Name = name
			if err := tw.WriteHeader(hdr); err != nil {
				return fmt.Errorf("%w: add file %s: %v", common.ErrArchive, name, err)
			}
			f, err := os.Open(p)
			if err != nil {
				return fmt.Errorf("%w: open %s: %v", common.ErrArchive, p, err)
			}
			_, err = io.Copy(tw, f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%w: copy %s: %v", common.ErrArchive, p, err)
			}

		default:
			// Symlinks, sockets, devices: skipped.
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finish: %v", common.ErrArchive, err)
	}
	return buf.Bytes(), nil
}

// Unpack materializes a tar stream produced by Pack under destDir, creating
// destDir and intermediate directories as needed. Entries that would escape
// destDir are rejected with common.ErrArchive. Extraction is not atomic;
// a failure may leave partially extracted entries behind.
func Unpack(data []byte, destDir string) error {
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", common.ErrArchive, destDir, err)
	}

	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: read entry: %v", common.ErrArchive, err)
		}

		target, err := securePath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, fs.FileMode(hdr.Mode).Perm()|0o700); err != nil {
				return fmt.Errorf("%w: mkdir %s: %v", common.ErrArchive, target, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return fmt.Errorf("%w: mkdir %s: %v", common.ErrArchive, filepath.Dir(target), err)
			}
			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fs.FileMode(hdr.Mode).Perm())
			if err != nil {
				return fmt.Errorf("%w: create %s: %v", common.ErrArchive, target, err)
			}
			_, err = io.Copy(f, tr)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("%w: extract %s: %v", common.ErrArchive, target, err)
			}

		default:
			// Entry types Pack never produces are ignored.
		}
	}
}

// securePath joins an archive entry name onto destDir, rejecting names that
// would resolve outside it.
func securePath(destDir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: entry escapes destination: %s", common.ErrArchive, name)
	}
	return filepath.Join(destDir, clean), nil
}

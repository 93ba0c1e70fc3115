package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/resqrypt/resqrypt/internal/common"
)

func writeTestTree(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	src := filepath.Join(tmp, "project")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "subdir", "deep"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "file1.txt"), []byte("Hello, World!"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "subdir", "file2.txt"), []byte("Nested file"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "subdir", "deep", "file3.bin"), bytes.Repeat([]byte{0xFE}, 4096), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0o750))

	return src
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	src := writeTestTree(t)

	data, err := Pack(src)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	dest := t.TempDir()
	require.NoError(t, Unpack(data, dest))

	// Extraction recreates a top-level directory named after the source.
	root := filepath.Join(dest, "project")

	got1, err := os.ReadFile(filepath.Join(root, "file1.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("Hello, World!"), got1)

	got2, err := os.ReadFile(filepath.Join(root, "subdir", "file2.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("Nested file"), got2)

	got3, err := os.ReadFile(filepath.Join(root, "subdir", "deep", "file3.bin"))
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0xFE}, 4096), got3)

	fi, err := os.Stat(filepath.Join(root, "empty"))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "empty directories survive the round trip")
}

func TestPack_Deterministic(t *testing.T) {
	src := writeTestTree(t)

	a, err := Pack(src)
	require.NoError(t, err)
	b, err := Pack(src)
	require.NoError(t, err)

	require.Equal(t, a, b, "packing the same tree twice must produce identical bytes")
}

func TestPack_NotADirectory(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o600))

	_, err := Pack(file)
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestPack_MissingSource(t *testing.T) {
	_, err := Pack(filepath.Join(t.TempDir(), "nope"))
	require.True(t, errors.Is(err, common.ErrNotFound))
}

func TestPack_SkipsSymlinks(t *testing.T) {
	src := writeTestTree(t)
	require.NoError(t, os.Symlink(filepath.Join(src, "file1.txt"), filepath.Join(src, "link.txt")))

	data, err := Pack(src)
	require.NoError(t, err)

	dest := t.TempDir()
	require.NoError(t, Unpack(data, dest))

	_, err = os.Lstat(filepath.Join(dest, "project", "link.txt"))
	require.True(t, os.IsNotExist(err), "symlinks are not archived")
}

func TestUnpack_CreatesDestination(t *testing.T) {
	src := writeTestTree(t)
	data, err := Pack(src)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "does", "not", "exist")
	require.NoError(t, Unpack(data, dest))

	_, err = os.Stat(filepath.Join(dest, "project", "file1.txt"))
	require.NoError(t, err)
}

func TestUnpack_MalformedInput(t *testing.T) {
	err := Unpack([]byte("definitely not a tar stream"), t.TempDir())
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrArchive))
}

func TestUnpack_RejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     "../escape.txt",
		Mode:     0o600,
		Size:     4,
	}))
	_, err := tw.Write([]byte("evil"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	err = Unpack(buf.Bytes(), t.TempDir())
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrArchive))
}

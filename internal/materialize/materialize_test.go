package materialize

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, m *Materializer, path string) string {
	t.Helper()
	data, err := util.ReadFile(m.FS, path)
	require.NoError(t, err)
	return string(data)
}

func TestWrite_CreatesFileInRoot(t *testing.T) {
	m := New(memfs.New())

	require.NoError(t, m.Write("Dockerfile", "FROM scratch"))
	assert.Equal(t, "FROM scratch", readFile(t, m, "Dockerfile"))
}

func TestWrite_OverwritesAndIsIdempotent(t *testing.T) {
	m := New(memfs.New())
	require.NoError(t, m.EnsureDir("demo"))

	require.NoError(t, m.Write("demo/.env", "a much longer previous content\nwith lines\n"))
	require.NoError(t, m.Write("demo/.env", "X=1"))
	first := readFile(t, m, "demo/.env")
	require.NoError(t, m.Write("demo/.env", "X=1"))

	assert.Equal(t, "X=1", first)
	assert.Equal(t, first, readFile(t, m, "demo/.env"))
}

func TestWrite_MissingParentFails(t *testing.T) {
	m := New(memfs.New())

	err := m.Write("demo/src/main.rs", "fn main() {}")
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, m.Exists("demo"), "parent must not be created")
}

func TestWrite_ParentIsFile(t *testing.T) {
	m := New(memfs.New())
	require.NoError(t, m.Write("demo", "not a dir"))

	err := m.Write("demo/x.txt", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestResetDir(t *testing.T) {
	m := New(memfs.New())
	require.NoError(t, m.EnsureDir("web/src/styles/nested"))
	require.NoError(t, m.Write("web/src/styles/old.css", "old"))

	require.NoError(t, m.ResetDir("web/src/styles"))

	assert.True(t, m.Exists("web/src/styles"))
	assert.False(t, m.Exists("web/src/styles/old.css"))
	assert.False(t, m.Exists("web/src/styles/nested"))
}

func TestResetDir_MissingFails(t *testing.T) {
	m := New(memfs.New())

	err := m.ResetDir("web/src/styles")
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "reset", ioErr.Op)
	assert.False(t, m.Exists("web/src/styles"))
}

func TestWrite_OnDisk(t *testing.T) {
	root := t.TempDir()
	m := New(osfs.New(root))

	require.NoError(t, os.WriteFile(filepath.Join(root, "Dockerfile"), []byte("stale content that is longer"), 0o644))
	require.NoError(t, m.Write("Dockerfile", "FROM rust:latest"))

	data, err := os.ReadFile(filepath.Join(root, "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, "FROM rust:latest", string(data))

	err = m.Write("missing/file", "x")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(root, "missing"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTransform(t *testing.T) {
	m := New(memfs.New())
	require.NoError(t, m.Write("notes.txt", "hello"))

	err := m.Transform("notes.txt", func(b []byte) ([]byte, error) {
		return append(b, " world"...), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", readFile(t, m, "notes.txt"))
}

func TestTransform_MissingFile(t *testing.T) {
	m := New(memfs.New())
	called := false

	err := m.Transform("package.json", func(b []byte) ([]byte, error) {
		called = true
		return b, nil
	})

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.False(t, called)
}

func TestTransform_MutationErrorPassesThrough(t *testing.T) {
	m := New(memfs.New())
	require.NoError(t, m.Write("package.json", "{}"))
	sentinel := errors.New("boom")

	err := m.Transform("package.json", func([]byte) ([]byte, error) { return nil, sentinel })
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "{}", readFile(t, m, "package.json"))
}

// Package materialize writes template payloads into the workspace file system.
package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// IOError reports a failed file-system operation on a single path.
type IOError struct {
	// Op is the operation that failed (write, mkdir, reset).
	Op string
	// Path is the workspace-relative path involved.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Materializer writes files and manages directories on a billy file system.
//
// Write unconditionally overwrites an existing file. The tool assumes a pristine
// target directory, so a second run over an existing project silently replaces
// any generated file that was edited in between.
type Materializer struct {
	FS billy.Filesystem
}

// New constructs a Materializer bound to fsys.
func New(fsys billy.Filesystem) *Materializer {
	return &Materializer{FS: fsys}
}

// Write creates or truncates path and writes content into it.
// The parent directory must already exist; Write never creates it.
func (m *Materializer) Write(path, content string) error {
	if err := m.requireDir(filepath.Dir(path)); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	f, err := m.FS.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if _, err := f.Write([]byte(content)); err != nil {
		_ = f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// EnsureDir creates path and any missing parents.
func (m *Materializer) EnsureDir(path string) error {
	if err := m.FS.MkdirAll(path, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

// ResetDir removes path recursively and recreates it empty.
// The directory must exist beforehand.
func (m *Materializer) ResetDir(path string) error {
	if err := m.requireDir(path); err != nil {
		return &IOError{Op: "reset", Path: path, Err: err}
	}
	if err := util.RemoveAll(m.FS, path); err != nil {
		return &IOError{Op: "reset", Path: path, Err: err}
	}
	if err := m.FS.MkdirAll(path, 0o755); err != nil {
		return &IOError{Op: "reset", Path: path, Err: err}
	}
	return nil
}

// Transform loads path, passes its content through mutate and rewrites the file.
// A missing file is an IOError; errors returned by mutate are passed through unchanged.
func (m *Materializer) Transform(path string, mutate func([]byte) ([]byte, error)) error {
	data, err := util.ReadFile(m.FS, path)
	if err != nil {
		return &IOError{Op: "read", Path: path, Err: err}
	}
	out, err := mutate(data)
	if err != nil {
		return err
	}
	return m.Write(path, string(out))
}

// Exists reports whether path exists on the file system.
func (m *Materializer) Exists(path string) bool {
	_, err := m.FS.Stat(path)
	return err == nil
}

func (m *Materializer) requireDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	info, err := m.FS.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("directory %q does not exist: %w", dir, fs.ErrNotExist)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}
	return nil
}

package vfs

import (
	"os"
	"strings"
	"syscall"
)

// RootFilesystem serves the collaborator contract through an os.Root
// handle, so the kernel re-checks containment on every call. The session's
// resolution is lexical and cannot see symlinks; with this driver a symlink
// pointing out of the tree fails at open time instead of escaping. Safe
// for use by any number of sessions at once.
type RootFilesystem struct {
	root   *os.Root
	prefix string // the bound directory, with trailing separator
}

// OpenRootFilesystem opens dir and pins all future operations inside it.
// Sessions using the driver must be rooted at the same dir.
func OpenRootFilesystem(dir string) (*RootFilesystem, error) {
	root, err := os.OpenRoot(strings.TrimSuffix(dir, string(separator)))
	if err != nil {
		return nil, err
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(separator)) {
		prefix += string(separator)
	}
	return &RootFilesystem{root: root, prefix: prefix}, nil
}

// Close releases the directory handle.
func (r *RootFilesystem) Close() error {
	return r.root.Close()
}

// rel maps the engine's absolute path back to a root-relative name. Paths
// outside the prefix are passed through untouched; os.Root rejects them.
func (r *RootFilesystem) rel(path string) string {
	if path == r.prefix || path+string(separator) == r.prefix {
		return "."
	}
	name := strings.TrimPrefix(path, r.prefix)
	if name == path {
		return path
	}
	return strings.TrimSuffix(name, string(separator))
}

func (r *RootFilesystem) Stat(path string) (os.FileInfo, error) {
	return r.root.Stat(r.rel(path))
}

func (r *RootFilesystem) Mkdir(path string, perm os.FileMode) error {
	return r.root.Mkdir(r.rel(path), perm)
}

func (r *RootFilesystem) Rmdir(path string) error {
	name := r.rel(path)
	fi, err := r.root.Stat(name)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTDIR}
	}
	return r.root.Remove(name)
}

func (r *RootFilesystem) Remove(path string) error {
	name := r.rel(path)
	fi, err := r.root.Stat(name)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return &os.PathError{Op: "remove", Path: path, Err: syscall.EISDIR}
	}
	return r.root.Remove(name)
}

func (r *RootFilesystem) Rename(oldpath, newpath string) error {
	return r.root.Rename(r.rel(oldpath), r.rel(newpath))
}

func (r *RootFilesystem) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return r.root.OpenFile(r.rel(path), flag, perm)
}

func (r *RootFilesystem) OpenDir(path string) (Dir, error) {
	f, err := r.root.Open(r.rel(path))
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !fi.IsDir() {
		f.Close()
		return nil, &os.PathError{Op: "opendir", Path: path, Err: syscall.ENOTDIR}
	}
	return f, nil
}

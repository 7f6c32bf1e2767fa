package vfs

import (
	"io"
	"os"
)

// Filesystem is the terminal collaborator a session issues its calls to.
// Every path it receives is a fully resolved absolute path on the backing
// filesystem; implementations never see client-supplied or virtual paths
// and perform no sandboxing of their own (though they may add some, see
// RootFilesystem). Errors are returned to the engine's caller unchanged.
type Filesystem interface {
	Stat(path string) (os.FileInfo, error)
	Mkdir(path string, perm os.FileMode) error
	Rmdir(path string) error
	Remove(path string) error
	Rename(oldpath, newpath string) error
	OpenFile(path string, flag int, perm os.FileMode) (File, error)
	OpenDir(path string) (Dir, error)
}

// File is an open file handle.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Stat() (os.FileInfo, error)
}

// Dir is an open directory handle. Readdir follows the os.File contract:
// with a positive count it returns at most that many entries and io.EOF at
// the end, with count <= 0 it returns the whole directory in one slice.
type Dir interface {
	Readdir(count int) ([]os.FileInfo, error)
	Close() error
}

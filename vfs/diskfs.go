package vfs

import (
	"os"
	"syscall"

	"github.com/spf13/afero"
)

// DiskFilesystem adapts an afero filesystem to the collaborator contract.
// afero has a single Remove for files and directories, so the POSIX split
// is enforced here: Rmdir refuses non-directories and Remove refuses
// directories, on every backend. Production wires afero.NewOsFs; tests run
// the same driver over afero.NewMemMapFs.
type DiskFilesystem struct {
	fs afero.Fs
}

// NewDiskFilesystem wraps fs; nil means the host filesystem.
func NewDiskFilesystem(fs afero.Fs) *DiskFilesystem {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DiskFilesystem{fs: fs}
}

func (d *DiskFilesystem) Stat(path string) (os.FileInfo, error) {
	return d.fs.Stat(path)
}

func (d *DiskFilesystem) Mkdir(path string, perm os.FileMode) error {
	return d.fs.Mkdir(path, perm)
}

func (d *DiskFilesystem) Rmdir(path string) error {
	fi, err := d.fs.Stat(path)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTDIR}
	}
	return d.fs.Remove(path)
}

func (d *DiskFilesystem) Remove(path string) error {
	fi, err := d.fs.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return &os.PathError{Op: "remove", Path: path, Err: syscall.EISDIR}
	}
	return d.fs.Remove(path)
}

func (d *DiskFilesystem) Rename(oldpath, newpath string) error {
	return d.fs.Rename(oldpath, newpath)
}

func (d *DiskFilesystem) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return d.fs.OpenFile(path, flag, perm)
}

func (d *DiskFilesystem) OpenDir(path string) (Dir, error) {
	fi, err := d.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, &os.PathError{Op: "opendir", Path: path, Err: syscall.ENOTDIR}
	}
	return d.fs.Open(path)
}

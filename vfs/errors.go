package vfs

import "errors"

var (
	// ErrPathTooLong is returned when a combined path would not fit in the
	// session's path buffers. The check runs before any buffer write, so the
	// working directory and any previously resolved path stay intact.
	ErrPathTooLong = errors.New("vfs: path too long")

	// ErrTraversalRefused is returned for an absolute path that does not lie
	// at or below the current working directory. Relative over-".." is not an
	// error; it clamps at the boundary instead.
	ErrTraversalRefused = errors.New("vfs: path outside working directory")

	// ErrNotADirectory is returned by Chdir when the target does not exist or
	// is not a directory. The working directory is unchanged.
	ErrNotADirectory = errors.New("vfs: not a directory")

	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("vfs: session closed")
)

// Package vfs confines filesystem access to a directory tree. A session
// resolves client-supplied paths, relative or absolute, against a
// per-session working directory into absolute paths that never leave the
// session's root, then delegates the terminal filesystem call to an
// injected collaborator.
//
// Resolution is purely lexical and allocation-free: each session owns two
// fixed-capacity path buffers and all normalization is in-place byte
// surgery. "." and ".." are collapsed
// by hand; path/filepath is deliberately not used. Relative traversal that
// would climb above the permitted boundary is clamped there silently, while
// absolute paths outside the boundary are refused with an error. Chdir may
// climb down to the root but never above it.
//
// A session serves one client connection and is not safe for concurrent
// use; callers serialize. Sandboxing is against the path, not the inode:
// symlinks inside the tree can still point out of it unless the
// RootFilesystem driver is used.
package vfs

import (
	"errors"
	"fmt"
)

// DefaultPathCapacity is the size of each path buffer when WithPathCapacity
// is not given.
const DefaultPathCapacity = 4096

// Session tracks one client's working directory below a fixed root and
// owns the buffers all its paths are built in. The zero value is unusable;
// use OpenSession.
type Session struct {
	fs      Filesystem
	log     Logger
	buffers [2]pathBuffer

	// rootLen and cwdLen delimit the two nested prefixes inside the
	// buffers: data[:rootLen] is the immutable root and data[:cwdLen] the
	// current working directory, both ending in a separator. rootLen <=
	// cwdLen holds at all times, including after a failed Chdir.
	rootLen  int
	cwdLen   int
	capacity int
	closed   bool
}

// Option configures a session at open time.
type Option func(*Session)

// WithLogger routes the session's diagnostics to l.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPathCapacity sets the byte capacity of each of the session's two path
// buffers, bounding the longest resolvable path.
func WithPathCapacity(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// OpenSession creates a session rooted at root, an absolute path on fsys.
// The working directory starts at the root. A trailing separator on root is
// optional; one is kept internally either way.
func OpenSession(fsys Filesystem, root string, opts ...Option) (*Session, error) {
	if fsys == nil {
		return nil, errors.New("vfs: nil filesystem")
	}
	if root == "" || root[0] != separator {
		return nil, fmt.Errorf("vfs: root must be absolute, got %q", root)
	}
	if root[len(root)-1] != separator {
		root += string(separator)
	}
	s := &Session{
		fs:       fsys,
		log:      NopLogger(),
		capacity: DefaultPathCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(root)+1 > s.capacity {
		return nil, fmt.Errorf("vfs: root longer than path capacity %d: %w", s.capacity, ErrPathTooLong)
	}
	s.buffers[bufferA] = newPathBuffer(s.capacity)
	s.buffers[bufferB] = newPathBuffer(s.capacity)
	copy(s.buffers[bufferA].data, root)
	copy(s.buffers[bufferB].data, root)
	s.rootLen = len(root)
	s.cwdLen = len(root)
	return s, nil
}

// Close releases the session. Further operations return ErrSessionClosed.
// Close is idempotent.
func (s *Session) Close() error {
	s.closed = true
	return nil
}

// Root returns the session's root, with its trailing separator.
func (s *Session) Root() string {
	return string(s.buffers[bufferB].data[:s.rootLen])
}

// Getwd reports the working directory relative to the root, with a leading
// separator: "/" at the root itself, "/a/b" below it (no trailing
// separator).
func (s *Session) Getwd() string {
	if s.cwdLen > s.rootLen {
		return string(s.buffers[bufferA].data[s.rootLen-1 : s.cwdLen-1])
	}
	return string(separator)
}

// restoreWorking copies the committed working directory back over buffer
// A's prefix after a failed Chdir left a tentative path there.
func (s *Session) restoreWorking() {
	copy(s.buffers[bufferA].data[:s.cwdLen], s.buffers[bufferB].data[:s.cwdLen])
}

package vfs

import "os"

// The pass-through operations resolve their argument with the cwd
// confinement and hand the result straight to the collaborator. Filesystem
// errors come back unchanged; the engine adds nothing and retries nothing.

// Stat returns metadata for the file or directory at raw.
func (s *Session) Stat(raw string) (os.FileInfo, error) {
	rp, err := s.Resolve(raw)
	if err != nil {
		return nil, err
	}
	return s.fs.Stat(rp.String())
}

// Mkdir creates a directory at raw.
func (s *Session) Mkdir(raw string, perm os.FileMode) error {
	rp, err := s.Resolve(raw)
	if err != nil {
		return err
	}
	return s.fs.Mkdir(rp.String(), perm)
}

// Rmdir removes the directory at raw.
func (s *Session) Rmdir(raw string) error {
	rp, err := s.Resolve(raw)
	if err != nil {
		return err
	}
	return s.fs.Rmdir(rp.String())
}

// Remove unlinks the file at raw.
func (s *Session) Remove(raw string) error {
	rp, err := s.Resolve(raw)
	if err != nil {
		return err
	}
	return s.fs.Remove(rp.String())
}

// OpenFile opens the file at raw with os.O_* flags.
func (s *Session) OpenFile(raw string, flag int, perm os.FileMode) (File, error) {
	rp, err := s.Resolve(raw)
	if err != nil {
		return nil, err
	}
	return s.fs.OpenFile(rp.String(), flag, perm)
}

// OpenDir opens the directory at raw for iteration.
func (s *Session) OpenDir(raw string) (Dir, error) {
	rp, err := s.Resolve(raw)
	if err != nil {
		return nil, err
	}
	return s.fs.OpenDir(rp.String())
}

// Rename moves from to to. The two paths resolve through separate buffers,
// the only operation that needs both at once, and each is confined below
// the working directory. A resolution failure on either side aborts before
// the collaborator is called.
func (s *Session) Rename(from, to string) error {
	if s.closed {
		return ErrSessionClosed
	}
	src, err := s.resolve(from, bufferA, true)
	if err != nil {
		return err
	}
	dst, err := s.resolve(to, bufferB, true)
	if err != nil {
		return err
	}
	s.log.Infof("rename %s -> %s", src, dst)
	return s.fs.Rename(src.String(), dst.String())
}

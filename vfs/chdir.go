package vfs

// Chdir moves the working directory. The target is resolved without the
// cwd confinement, so ".." climbs toward the root and clamps there; at
// the root "cd .." is an error-free no-op. The directory must exist on
// the filesystem before it is committed; on any failure the previous
// working directory is fully preserved, down to the bytes Getwd reports.
func (s *Session) Chdir(raw string) error {
	if s.closed {
		return ErrSessionClosed
	}
	work := &s.buffers[bufferA]
	rp, err := s.resolve(raw, bufferA, false)
	if err != nil {
		// Resolution fails before it writes, so no rollback needed.
		return err
	}
	n := rp.n
	if work.data[n-1] != separator {
		if n+1 > s.capacity {
			s.log.Errorf("chdir: no room for trailing separator: %q", raw)
			s.restoreWorking()
			return ErrPathTooLong
		}
		work.data[n] = separator
		n++
	}
	if n != s.rootLen {
		// Stat without the trailing separator; "/a/b/" is not a valid stat
		// target for every backend.
		target := string(work.data[:n-1])
		fi, err := s.fs.Stat(target)
		if err != nil || !fi.IsDir() {
			s.log.Warnf("chdir: not a directory: %s", target)
			s.restoreWorking()
			return ErrNotADirectory
		}
	}
	s.cwdLen = n
	copy(s.buffers[bufferB].data[:n], work.data[:n])
	s.log.Debugf("chdir: %s", s.Getwd())
	return nil
}

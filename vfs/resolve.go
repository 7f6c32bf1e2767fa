package vfs

// resolve combines the root, the working directory and raw into the
// selected buffer and returns a view of the canonical absolute path.
// limitToCwd picks the escape rule: when true the result must lie at or
// below the working directory (absolute paths that do not are refused,
// relative ".." clamps at the cwd); when false (Chdir's mode) ".." may
// climb as far as the root and absolute paths are taken relative to it.
//
// The capacity check runs before anything is written, so on error the
// buffer still holds whatever it held before. A successful resolve
// overwrites the buffer's suffix; with limitToCwd=true the first cwdLen
// bytes are never touched, which is what keeps the other buffer's path
// alive across Rename's second resolution.
func (s *Session) resolve(raw string, which bufferID, limitToCwd bool) (ResolvedPath, error) {
	b := &s.buffers[which]
	if s.cwdLen+len(raw)+1 > s.capacity {
		s.log.Errorf("path too long: %q", raw)
		return ResolvedPath{}, ErrPathTooLong
	}
	var n int
	switch {
	case len(raw) > 0 && raw[0] == separator && limitToCwd:
		// Clients name paths relative to the root, in the same virtual
		// form Getwd reports. Inside the cwd means the cwd's virtual name,
		// ending exactly or at a separator, prefixes the request.
		sub := s.cwdLen - s.rootLen
		if len(raw) < sub || string(b.data[s.rootLen-1:s.cwdLen-1]) != raw[:sub] ||
			(len(raw) > sub && raw[sub] != separator) {
			s.log.Warnf("refusing absolute path outside cwd: %q", raw)
			return ResolvedPath{}, ErrTraversalRefused
		}
		n = s.cwdLen - 1 + copy(b.data[s.cwdLen-1:], raw[sub:])
		if n > s.cwdLen {
			n = normalize(b.data, s.cwdLen, n)
		}
	case len(raw) > 0 && raw[0] == separator:
		n = s.rootLen - 1 + copy(b.data[s.rootLen-1:], raw)
		n = normalize(b.data, s.rootLen, n)
	default:
		n = s.cwdLen + copy(b.data[s.cwdLen:], raw)
		start := s.cwdLen
		if !limitToCwd {
			start = s.rootLen
		}
		n = normalize(b.data, start, n)
	}
	return ResolvedPath{buf: b, n: n}, nil
}

// Resolve canonicalizes raw against the working directory, confined below
// it: the path every read- or write-style operation would act on. The view
// is valid until the session's next operation.
func (s *Session) Resolve(raw string) (ResolvedPath, error) {
	if s.closed {
		return ResolvedPath{}, ErrSessionClosed
	}
	return s.resolve(raw, bufferA, true)
}

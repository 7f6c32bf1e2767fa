package vfs

const separator = '/'

// normalize collapses duplicate separators, "." segments and ".." segments
// in buf[start:end] in place and returns the new end. Bytes below start are
// the protected prefix: they are never read or written, and a ".." with no
// previous segment left inside the region is dropped instead of climbing
// past start. Segments that merely begin with dots (".hidden", "...") pass
// through untouched.
//
// Separator bookkeeping: an interior dot segment leaves one joining
// separator ("a/b/../c" -> "a/c", "a/b/../" -> "a/"), while a final "." or
// ".." takes the separator before it with it ("a/." -> "a", "a/b/.." ->
// "a"). A trailing separator after a normal segment survives.
//
// The result contains no "." or ".." segments and no separator runs, so
// normalizing an already normalized region is a no-op.
func normalize(buf []byte, start, end int) int {
	r, w := start, start
	trim := false
	for r < end {
		switch {
		case buf[r] == separator:
			r++
		case dotSegment(buf, r, end):
			trim = r+1 == end
			r += 2
		case dotDotSegment(buf, r, end):
			trim = r+2 == end
			r += 3
			if w > start {
				w-- // separator written after the previous segment
				for w > start && buf[w-1] != separator {
					w--
				}
			}
		default:
			for r < end && buf[r] != separator {
				buf[w] = buf[r]
				w++
				r++
			}
			if r < end {
				buf[w] = separator
				w++
				r++
			}
		}
	}
	if trim && w > start && buf[w-1] == separator {
		w--
	}
	return w
}

func dotSegment(buf []byte, r, end int) bool {
	return buf[r] == '.' && (r+1 == end || buf[r+1] == separator)
}

func dotDotSegment(buf []byte, r, end int) bool {
	return buf[r] == '.' && r+1 < end && buf[r+1] == '.' &&
		(r+2 == end || buf[r+2] == separator)
}

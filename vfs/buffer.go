package vfs

// pathBuffer is a fixed-capacity byte area for path assembly. A session
// owns exactly two, allocated once at open time; every resolution writes
// into one of them in place. Lengths live with the session and with
// ResolvedPath views, not here.
type pathBuffer struct {
	data []byte
}

func newPathBuffer(capacity int) pathBuffer {
	return pathBuffer{data: make([]byte, capacity)}
}

type bufferID int

const (
	bufferA bufferID = iota // working buffer, used by every single-path operation
	bufferB                 // committed-cwd backup, second operand of Rename
)

// ResolvedPath is a view into one of the session's path buffers. It stays
// valid only until the next operation that resolves into the same buffer;
// callers that need the path beyond that must take String's copy first.
type ResolvedPath struct {
	buf *pathBuffer
	n   int
}

// Len reports the path's length in bytes.
func (p ResolvedPath) Len() int { return p.n }

// String materializes the resolved absolute path.
func (p ResolvedPath) String() string {
	if p.buf == nil {
		return ""
	}
	return string(p.buf.data[:p.n])
}

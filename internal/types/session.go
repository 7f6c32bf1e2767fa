package types

// SessionInfo describes a live navigation session.
type SessionInfo struct {
	ID        string `json:"id"`
	Root      string `json:"root"`
	Cwd       string `json:"cwd"`
	CreatedAt string `json:"createdAt"`
	LastUsed  string `json:"lastUsed"`
}

// CreateSessionResponse is returned when a session is opened. The token
// authorizes every later call against this session.
type CreateSessionResponse struct {
	SessionInfo
	Token string `json:"token"`
}

// ChdirRequest moves the session working directory. An empty path re-enters
// the current directory, which doubles as an existence check.
type ChdirRequest struct {
	Path string `json:"path"`
}

// MkdirRequest creates a directory under the session root.
type MkdirRequest struct {
	Path string `json:"path" binding:"required"`
}

// RenameRequest moves an entry. Both names resolve below the session's
// working directory.
type RenameRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

package types

// EntryInfo describes one file or directory below a session root. Path is
// the session-rooted spelling, the same form Getwd and chdir use.
type EntryInfo struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	IsDir      bool   `json:"isDir"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modifiedAt"`
}

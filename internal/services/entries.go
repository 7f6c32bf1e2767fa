package services

import (
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/BBBSnowball/lwip-ftpd/internal/types"
	"github.com/BBBSnowball/lwip-ftpd/vfs"
)

// The helpers below run inside Manager.With, so they take the engine
// session directly. They exist so the HTTP and WebSocket surfaces answer
// with the same shapes.

// VirtualPath reports the session-rooted spelling of raw, the same form
// Getwd reports and absolute arguments use.
func VirtualPath(s *vfs.Session, raw string) (string, error) {
	rp, err := s.Resolve(raw)
	if err != nil {
		return "", err
	}
	v := rp.String()[len(s.Root())-1:]
	if len(v) > 1 {
		v = strings.TrimSuffix(v, "/")
	}
	return v, nil
}

// ListEntries reads the directory at raw and returns its entries sorted by
// name. An empty raw lists the working directory.
func ListEntries(s *vfs.Session, raw string) ([]types.EntryInfo, error) {
	base, err := VirtualPath(s, raw)
	if err != nil {
		return nil, err
	}
	d, err := s.OpenDir(raw)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	infos, err := d.Readdir(-1)
	if err != nil {
		return nil, err
	}
	items := make([]types.EntryInfo, 0, len(infos))
	for _, fi := range infos {
		items = append(items, newEntry(joinVirtual(base, fi.Name()), fi))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// StatEntry returns metadata for the entry at raw.
func StatEntry(s *vfs.Session, raw string) (*types.EntryInfo, error) {
	vp, err := VirtualPath(s, raw)
	if err != nil {
		return nil, err
	}
	fi, err := s.Stat(raw)
	if err != nil {
		return nil, err
	}
	entry := newEntry(vp, fi)
	return &entry, nil
}

// ReadFile returns the contents of the file at raw.
func ReadFile(s *vfs.Session, raw string) ([]byte, error) {
	f, err := s.OpenFile(raw, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteFile replaces the contents of the file at raw, creating it if
// needed.
func WriteFile(s *vfs.Session, raw string, data []byte) error {
	f, err := s.OpenFile(raw, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newEntry(vp string, fi os.FileInfo) types.EntryInfo {
	return types.EntryInfo{
		Name:       path.Base(vp),
		Path:       vp,
		IsDir:      fi.IsDir(),
		Size:       fi.Size(),
		ModifiedAt: fi.ModTime().UTC().Format(time.RFC3339),
	}
}

func joinVirtual(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

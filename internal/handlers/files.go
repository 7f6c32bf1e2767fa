package handlers

import (
	"net/http"

	"github.com/BBBSnowball/lwip-ftpd/internal/services"
	"github.com/BBBSnowball/lwip-ftpd/internal/types"
	"github.com/BBBSnowball/lwip-ftpd/vfs"

	"github.com/gin-gonic/gin"
)

// ListEntries returns the entries of the directory at ?path, sorted by
// name. Without ?path it lists the working directory.
func ListEntries(c *gin.Context) {
	raw := c.Query("path")
	var items []types.EntryInfo
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		var err error
		items, err = services.ListEntries(s, raw)
		return err
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// StatEntry returns metadata for the entry at ?path.
func StatEntry(c *gin.Context) {
	raw := c.Query("path")
	var entry *types.EntryInfo
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		var err error
		entry, err = services.StatEntry(s, raw)
		return err
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ReadFileContent streams the file at ?path back as raw bytes.
func ReadFileContent(c *gin.Context) {
	raw := c.Query("path")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Path parameter required"})
		return
	}
	var data []byte
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		var err error
		data, err = services.ReadFile(s, raw)
		return err
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// WriteFileContent replaces the file at ?path with the request body,
// creating it if needed.
func WriteFileContent(c *gin.Context) {
	raw := c.Query("path")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Path parameter required"})
		return
	}
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body: " + err.Error()})
		return
	}
	err = Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		return services.WriteFile(s, raw, data)
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File written", "bytes": len(data)})
}

// MakeDirectory creates a directory and reports its session-rooted path.
func MakeDirectory(c *gin.Context) {
	var req types.MkdirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	var vp string
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		if err := s.Mkdir(req.Path, 0755); err != nil {
			return err
		}
		var verr error
		vp, verr = services.VirtualPath(s, req.Path)
		return verr
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": vp})
}

// RemoveFile unlinks the file at ?path.
func RemoveFile(c *gin.Context) {
	raw := c.Query("path")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Path parameter required"})
		return
	}
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		return s.Remove(raw)
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File removed"})
}

// RemoveDirectory removes the empty directory at ?path.
func RemoveDirectory(c *gin.Context) {
	raw := c.Query("path")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Path parameter required"})
		return
	}
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		return s.Rmdir(raw)
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Directory removed"})
}

// RenameEntry moves an entry. Both names are confined below the session's
// working directory.
func RenameEntry(c *gin.Context) {
	var req types.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		return s.Rename(req.From, req.To)
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Renamed"})
}

package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"syscall"

	"github.com/BBBSnowball/lwip-ftpd/internal/services"
	"github.com/BBBSnowball/lwip-ftpd/vfs"

	"github.com/gin-gonic/gin"
)

// respondFsError translates engine and filesystem errors into HTTP
// statuses. Anything unrecognized surfaces as a 500 with its message
// intact.
func respondFsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownSession), errors.Is(err, vfs.ErrSessionClosed):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, vfs.ErrTraversalRefused):
		c.JSON(http.StatusForbidden, gin.H{"error": "Path escapes the session root"})
	case errors.Is(err, vfs.ErrPathTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Path too long"})
	case errors.Is(err, vfs.ErrNotADirectory):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a directory"})
	case errors.Is(err, fs.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "No such file or directory"})
	case errors.Is(err, fs.ErrExist):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, fs.ErrPermission):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, syscall.ENOTDIR), errors.Is(err, syscall.EISDIR):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

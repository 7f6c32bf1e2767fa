package handlers

import (
	"net/http"

	"github.com/BBBSnowball/lwip-ftpd/internal/middleware"
	"github.com/BBBSnowball/lwip-ftpd/internal/services"
	"github.com/BBBSnowball/lwip-ftpd/internal/types"
	"github.com/BBBSnowball/lwip-ftpd/vfs"

	"github.com/gin-gonic/gin"
)

// Sessions is the shared session manager, assigned from main before routes
// are built.
var Sessions *services.Manager

// CreateSession opens a navigation session at the served root and returns
// its ID and the token that authorizes every later call against it.
func CreateSession(c *gin.Context) {
	info, err := Sessions.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open session: " + err.Error()})
		return
	}
	token, err := middleware.MintSessionToken(info.ID)
	if err != nil {
		_ = Sessions.Close(info.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mint session token: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, types.CreateSessionResponse{SessionInfo: *info, Token: token})
}

// GetSession reports the session's root, working directory and timestamps.
func GetSession(c *gin.Context) {
	info, err := Sessions.Info(c.Param("id"))
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DeleteSession closes the session. The manager's OnClose hook disconnects
// any WebSockets still bound to it.
func DeleteSession(c *gin.Context) {
	if err := Sessions.Close(c.Param("id")); err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

// GetCwd reports the session's working directory.
func GetCwd(c *gin.Context) {
	var cwd string
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		cwd = s.Getwd()
		return nil
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cwd": cwd})
}

// ChangeCwd moves the session's working directory and reports where it
// landed.
func ChangeCwd(c *gin.Context) {
	var req types.ChdirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	var cwd string
	err := Sessions.With(c.Param("id"), func(s *vfs.Session) error {
		if err := s.Chdir(req.Path); err != nil {
			return err
		}
		cwd = s.Getwd()
		return nil
	})
	if err != nil {
		respondFsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cwd": cwd})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/BBBSnowball/lwip-ftpd/websocket"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// GetMetrics handles the /metrics endpoint
func GetMetrics(c *gin.Context) {
	mm := Sessions.Metrics()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"metrics": gin.H{
			"uptime":               time.Since(startTime).Round(time.Second).String(),
			"activeSessions":       mm.ActiveSessions,
			"operations":           mm.Operations,
			"refusals":             mm.Refusals,
			"websocketConnections": websocket.ConnectionCount(),
		},
	})
}

// HealthCheck handles the /health endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

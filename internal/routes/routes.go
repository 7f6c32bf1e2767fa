package routes

import (
	"github.com/BBBSnowball/lwip-ftpd/internal/config"
	"github.com/BBBSnowball/lwip-ftpd/internal/handlers"
	"github.com/BBBSnowball/lwip-ftpd/internal/middleware"
	"github.com/BBBSnowball/lwip-ftpd/websocket"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all routes for the application
func SetupRoutes(appConfig *config.AppConfig) *gin.Engine {
	r := gin.Default()

	// Setup middleware
	middleware.SetupCORS(r)

	// API routes (all consolidated under /api)
	api := r.Group("/api")
	{
		api.POST("/sessions", handlers.CreateSession)

		// Everything under a session requires its token
		sessionGroup := api.Group("/sessions/:id", middleware.SessionAuth())
		{
			sessionGroup.GET("", handlers.GetSession)
			sessionGroup.DELETE("", handlers.DeleteSession)

			// Working directory
			sessionGroup.GET("/cwd", handlers.GetCwd)
			sessionGroup.POST("/chdir", handlers.ChangeCwd)

			// Directory and file operations
			sessionGroup.GET("/list", handlers.ListEntries)
			sessionGroup.GET("/stat", handlers.StatEntry)
			sessionGroup.GET("/file", handlers.ReadFileContent)
			sessionGroup.PUT("/file", handlers.WriteFileContent)
			sessionGroup.DELETE("/file", handlers.RemoveFile)
			sessionGroup.POST("/mkdir", handlers.MakeDirectory)
			sessionGroup.DELETE("/dir", handlers.RemoveDirectory)
			sessionGroup.POST("/rename", handlers.RenameEntry)

			// Command stream over one connection
			sessionGroup.GET("/ws", websocket.HandleSessionSocket)
		}
	}

	// Metrics endpoint
	r.GET("/metrics", handlers.GetMetrics)

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck)

	return r
}

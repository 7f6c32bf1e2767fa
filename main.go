package main

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"

	"github.com/BBBSnowball/lwip-ftpd/internal/config"
	"github.com/BBBSnowball/lwip-ftpd/internal/handlers"
	"github.com/BBBSnowball/lwip-ftpd/internal/middleware"
	"github.com/BBBSnowball/lwip-ftpd/internal/routes"
	"github.com/BBBSnowball/lwip-ftpd/internal/services"
	"github.com/BBBSnowball/lwip-ftpd/vfs"
	"github.com/BBBSnowball/lwip-ftpd/websocket"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; deployments set the environment directly.
	_ = godotenv.Load()

	// Load application configuration
	appConfig := config.LoadConfig()

	rootDir, err := filepath.Abs(appConfig.RootDir)
	if err != nil {
		log.Fatalf("Failed to resolve root directory %s: %v", appConfig.RootDir, err)
	}

	fsys, cleanup, err := openDriver(appConfig, rootDir)
	if err != nil {
		log.Fatalf("Failed to open root directory %s: %v", rootDir, err)
	}
	defer cleanup()

	middleware.SigningKey = []byte(signingKey(appConfig))
	middleware.TokenTTL = appConfig.SessionTTL

	manager := services.NewManager(fsys, rootDir, appConfig.PathCapacity, appConfig.SessionTTL)
	manager.SessionLogger = vfs.NewStdLogger(log.Default())
	manager.OnClose = websocket.CloseSession
	defer manager.Shutdown()

	handlers.Sessions = manager
	websocket.Sessions = manager

	// Setup routes
	r := routes.SetupRoutes(appConfig)

	log.Printf("Server starting on port %s", appConfig.Port)
	log.Printf("Serving %s with the %s driver", rootDir, appConfig.Driver)

	if err := r.Run(":" + appConfig.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openDriver builds the filesystem collaborator every session runs on. The
// rootfd driver pins operations below the root with a directory descriptor;
// the default disk driver relies on the lexical sandbox alone.
func openDriver(appConfig *config.AppConfig, rootDir string) (vfs.Filesystem, func(), error) {
	if appConfig.UseRootDriver() {
		rootFS, err := vfs.OpenRootFilesystem(rootDir)
		if err != nil {
			return nil, nil, err
		}
		return rootFS, func() { rootFS.Close() }, nil
	}

	fi, err := os.Stat(rootDir)
	if err != nil {
		return nil, nil, err
	}
	if !fi.IsDir() {
		return nil, nil, &os.PathError{Op: "open", Path: rootDir, Err: os.ErrInvalid}
	}
	return vfs.NewDiskFilesystem(nil), func() {}, nil
}

// signingKey returns the configured token key, or a random one so a bare
// server still works. Random keys do not survive a restart.
func signingKey(appConfig *config.AppConfig) string {
	if appConfig.SigningKey != "" {
		return appConfig.SigningKey
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate a signing key: %v", err)
	}
	log.Printf("SESSION_SIGNING_KEY not set; generated an ephemeral key")
	return hex.EncodeToString(buf)
}

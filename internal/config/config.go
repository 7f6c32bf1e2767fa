package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BBBSnowball/lwip-ftpd/vfs"
)

// DriverDisk and DriverRootFD name the two filesystem drivers sessions can
// run on. Disk trusts the lexical sandbox alone; rootfd additionally pins
// every operation below the root with a directory file descriptor, so
// symlinks cannot lead out of the tree.
const (
	DriverDisk   = "disk"
	DriverRootFD = "rootfd"
)

// AppConfig holds application configuration
type AppConfig struct {
	Port         string
	RootDir      string
	Driver       string
	PathCapacity int
	SessionTTL   time.Duration
	SigningKey   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *AppConfig {
	return &AppConfig{
		Port:         getEnvOrDefault("PORT", "8080"),
		RootDir:      getEnvOrDefault("VFS_ROOT", "/srv/vfs"),
		Driver:       getEnvOrDefault("VFS_DRIVER", DriverDisk),
		PathCapacity: getEnvIntOrDefault("VFS_PATH_CAPACITY", vfs.DefaultPathCapacity),
		SessionTTL:   time.Duration(getEnvIntOrDefault("SESSION_TTL_MINUTES", 30)) * time.Minute,
		SigningKey:   getEnvOrDefault("SESSION_SIGNING_KEY", ""),
	}
}

// UseRootDriver reports whether sessions should run on the file-descriptor
// pinned driver instead of plain disk access.
func (c *AppConfig) UseRootDriver() bool {
	return c.Driver == DriverRootFD
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

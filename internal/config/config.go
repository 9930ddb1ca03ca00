// Package config provides configuration management for the Clipsheet agent.
// Configuration is loaded from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort        = 8799
	DefaultLogLevel    = "info"
	DefaultDataDir     = ".clipsheet"
	DefaultMaxUploadMB = 500
	DefaultUploadTTL   = 24 * time.Hour

	// Environment variable names
	EnvPort        = "CLIPSHEET_PORT"
	EnvLogLevel    = "CLIPSHEET_LOG_LEVEL"
	EnvDataDir     = "CLIPSHEET_DATA_DIR"
	EnvMaxUploadMB = "CLIPSHEET_MAX_UPLOAD_MB"
	EnvUploadTTLH  = "CLIPSHEET_UPLOAD_TTL_HOURS"
	EnvHeadless    = "CLIPSHEET_HEADLESS"

	// Database filename
	DBFilename = "clipsheet.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	UploadsDir() string
	MaxUploadBytes() int64
	UploadTTL() time.Duration
	Headless() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port        int
	logLevel    string
	dataDir     string
	maxUploadMB int64
	uploadTTL   time.Duration
	headless    bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &EnvConfig{
		port:        DefaultPort,
		logLevel:    DefaultLogLevel,
		dataDir:     defaultDataDir(),
		maxUploadMB: DefaultMaxUploadMB,
		uploadTTL:   DefaultUploadTTL,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if mb := os.Getenv(EnvMaxUploadMB); mb != "" {
		n, err := strconv.ParseInt(mb, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer", EnvMaxUploadMB)
		}
		cfg.maxUploadMB = n
	}

	if h := os.Getenv(EnvUploadTTLH); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer", EnvUploadTTLH)
		}
		cfg.uploadTTL = time.Duration(n) * time.Hour
	}

	if hl := os.Getenv(EnvHeadless); hl != "" {
		cfg.headless = hl == "1" || hl == "true"
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// UploadsDir returns the directory holding uploaded project files
func (c *EnvConfig) UploadsDir() string {
	return filepath.Join(c.dataDir, "uploads")
}

// MaxUploadBytes returns the maximum accepted upload size in bytes
func (c *EnvConfig) MaxUploadBytes() int64 {
	return c.maxUploadMB * 1024 * 1024
}

// UploadTTL returns how long stored uploads are kept before the janitor
// removes them
func (c *EnvConfig) UploadTTL() time.Duration {
	return c.uploadTTL
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

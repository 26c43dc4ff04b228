package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDB          = "PAGEQUIZ_DB"
	EnvContentURL  = "PAGEQUIZ_CONTENT_URL"
	EnvRedisURL    = "PAGEQUIZ_REDIS_URL"
	EnvLogLevel    = "PAGEQUIZ_LOG_LEVEL"
	EnvLogFile     = "PAGEQUIZ_LOG_FILE"
	EnvHTTPTimeout = "PAGEQUIZ_HTTP_TIMEOUT"
)

// DefaultContentURL is the page API used when none is configured.
const DefaultContentURL = "https://api.alquran.cloud/v1"

// Config holds process-wide settings resolved at startup.
type Config struct {
	// DBPath is the SQLite database file. Empty means the XDG default.
	DBPath string

	// ContentURL is the base URL of the page content API.
	ContentURL string

	// RedisURL enables the Redis leaderboard when set (redis://host:port/db).
	RedisURL string

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string

	// LogFile receives logs while the TUI owns the terminal.
	// Empty means <data dir>/pagequiz.log.
	LogFile string

	// HTTPTimeout bounds a single content API request.
	HTTPTimeout time.Duration
}

// Load reads an optional .env file from the working directory and then the
// process environment. Values already present in the environment win over
// the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:      os.Getenv(EnvDB),
		ContentURL:  getEnv(EnvContentURL, DefaultContentURL),
		RedisURL:    os.Getenv(EnvRedisURL),
		LogLevel:    getEnv(EnvLogLevel, "info"),
		LogFile:     os.Getenv(EnvLogFile),
		HTTPTimeout: 15 * time.Second,
	}

	if v, ok := os.LookupEnv(EnvHTTPTimeout); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// DataDir returns the directory that holds the database and log file.
func (c *Config) DataDir() (string, error) {
	if c.DBPath != "" {
		return filepath.Dir(c.DBPath), nil
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "pagequiz"), nil
}

// LogPath resolves the log file used by the TUI.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pagequiz.log"), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// parseDuration accepts Go durations ("10s") or a bare number of seconds.
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

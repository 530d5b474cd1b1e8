package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIBaseURL is the MediNote backend, without a trailing slash.
	APIBaseURL string

	// DataDir holds the session snapshot and the local mirror cache.
	DataDir string

	LogLevel    string
	HTTPTimeout time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	dataDir := os.Getenv("MEDINOTE_DATA_DIR")
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dataDir = filepath.Join(base, "medinote")
	}

	cfg := &Config{
		APIBaseURL:  EnvDefault("MEDINOTE_API_URL", "http://localhost:8000"),
		DataDir:     dataDir,
		LogLevel:    EnvDefault("MEDINOTE_LOG_LEVEL", "info"),
		HTTPTimeout: time.Duration(EnvIntDefault("MEDINOTE_HTTP_TIMEOUT", 15)) * time.Second,
	}

	return cfg, nil
}

// SessionFile is where the persisted session snapshot lives.
func (c *Config) SessionFile() string {
	return filepath.Join(c.DataDir, "auth.json")
}

// CacheFile is the local mirror database.
func (c *Config) CacheFile() string {
	return filepath.Join(c.DataDir, "cache.db")
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Package config loads application configuration from the environment.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the application.
type Config struct {
	HTTPAddr string
	DataDir  string
	CameraID int

	MatchDistance    float64
	MaxMissingFrames int
	HistorySize      int

	AlertDir       string
	AlertTimeoutMs int

	ActivityThresh float64
}

// Load reads configuration from a .env file (if present) and the process
// environment, falling back to defaults for anything unset.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// No .env file is fine, the system environment still applies.
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		HTTPAddr:         getEnv("DARPAN_HTTP_ADDR", ":8080"),
		DataDir:          getEnv("DARPAN_DATA_DIR", defaultDataDir()),
		CameraID:         getEnvInt("DARPAN_CAMERA_ID", 0),
		MatchDistance:    getEnvFloat("DARPAN_MATCH_DISTANCE", 100),
		MaxMissingFrames: getEnvInt("DARPAN_MAX_MISSING_FRAMES", 30),
		HistorySize:      getEnvInt("DARPAN_HISTORY_SIZE", 30),
		AlertDir:         getEnv("DARPAN_ALERT_DIR", ""),
		AlertTimeoutMs:   getEnvInt("DARPAN_ALERT_TIMEOUT_MS", 5000),
		ActivityThresh:   getEnvFloat("DARPAN_ACTIVITY_THRESHOLD", 1.0),
	}
}

// defaultDataDir is ~/.darpan, or a relative fallback when the home
// directory cannot be resolved.
func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".darpan"
	}
	return filepath.Join(homeDir, ".darpan")
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if intVal, err := strconv.Atoi(v); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if floatVal, err := strconv.ParseFloat(v, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

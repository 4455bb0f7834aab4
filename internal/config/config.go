package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port               int
	DatabasePath       string
	UploadDirectory    string
	StaticDirectory    string
	LogDirectory       string
	ModelPath          string // optional pretrained classifier; stub is used when absent
	DefaultSite        string
	CaptureIntervalSec int // minimum seconds between persisted websocket frames
}

func Load() *Config {
	return &Config{
		Port:               getEnvAsInt("PORT", 8000),
		DatabasePath:       getEnv("DB_PATH", filepath.Join(".", "data", "helmet_monitor.db")),
		UploadDirectory:    getEnv("UPLOAD_DIR", filepath.Join(".", "uploads")),
		StaticDirectory:    getEnv("STATIC_DIR", filepath.Join(".", "static")),
		LogDirectory:       getEnv("LOG_DIR", filepath.Join(".", "logs")),
		ModelPath:          getEnv("MODEL_PATH", ""),
		DefaultSite:        getEnv("DEFAULT_SITE", "Unknown"),
		CaptureIntervalSec: getEnvAsInt("CAPTURE_INTERVAL", 5),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

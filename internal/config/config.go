// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Inference defaults
const (
	DefaultWorkersValue           = 4
	DefaultParallelThresholdValue = 256
	DefaultHintCacheMaxItemsValue = 128
)

// Host safety cap defaults
const (
	MaxBodyBytesValue = 16 << 20
	MaxDocumentsValue = 100000
)

// Config holds configuration shared by the CLI, MCP and HTTP hosts.
type Config struct {
	DefaultNumberType string // JTD_DEFAULT_NUMBER_TYPE, default "" (narrowest fitting type)
	Workers           int    // JTD_WORKERS, default 4
	ParallelThreshold int    // JTD_PARALLEL_THRESHOLD, default 256 documents
	HintCacheMaxItems int    // HINT_CACHE_MAX_ITEMS, default 128

	// HTTP host
	HTTPAddr     string // HTTP_ADDR, default "127.0.0.1:8080"
	MaxBodyBytes int    // MAX_BODY_BYTES, default 16MiB

	// Processing safety cap
	MaxDocuments int // MAX_DOCUMENTS, default 100000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogFormat     string // LOG_FORMAT, default "text"
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		DefaultNumberType: getEnvString("JTD_DEFAULT_NUMBER_TYPE", ""),
		Workers:           getEnvInt("JTD_WORKERS", DefaultWorkersValue),
		ParallelThreshold: getEnvInt("JTD_PARALLEL_THRESHOLD", DefaultParallelThresholdValue),
		HintCacheMaxItems: getEnvInt("HINT_CACHE_MAX_ITEMS", DefaultHintCacheMaxItemsValue),

		HTTPAddr:     getEnvString("HTTP_ADDR", "127.0.0.1:8080"),
		MaxBodyBytes: getEnvInt("MAX_BODY_BYTES", MaxBodyBytesValue),

		MaxDocuments: getEnvInt("MAX_DOCUMENTS", MaxDocumentsValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	OutputSize        int
	BackgroundRemoval bool
	AutoCrop          bool
	MaxUploadSize     int64
	AllowedExtensions []string
	FaceCascadePath   string
	MattingEndpoint   string
	MattingTimeout    time.Duration
	ProcessTimeout    time.Duration
	MaxWorkers        int
	AzureAccountName  string
	AzureAccountKey   string
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		OutputSize:        int(parseIntOrDefault("OUTPUT_IMAGE_SIZE", 512)),
		BackgroundRemoval: parseBoolOrDefault("BACKGROUND_REMOVAL", true),
		AutoCrop:          parseBoolOrDefault("AUTO_CROP", true),
		MaxUploadSize:     parseIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		AllowedExtensions: parseListOrDefault("ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "webp"}),
		FaceCascadePath:   getEnvOrDefault("FACE_CASCADE_PATH", "models/haarcascade_frontalface_default.xml"),
		MattingEndpoint:   os.Getenv("MATTING_ENDPOINT"),
		MattingTimeout:    parseDurationOrDefault("MATTING_TIMEOUT", 30*time.Second),
		ProcessTimeout:    parseDurationOrDefault("PROCESS_TIMEOUT", 60*time.Second),
		MaxWorkers:        int(parseIntOrDefault("MAX_WORKERS", 0)), // 0 = CPU count
		AzureAccountName:  os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:   os.Getenv("AZURE_STORAGE_KEY"),
	}

	if cfg.OutputSize <= 0 {
		return nil, fmt.Errorf("OUTPUT_IMAGE_SIZE must be > 0 (got %d)", cfg.OutputSize)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", cfg.MaxUploadSize)
	}
	if len(cfg.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("ALLOWED_EXTENSIONS must not be empty")
	}
	if cfg.MattingTimeout <= 0 || cfg.ProcessTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got matting=%s, process=%s)",
			cfg.MattingTimeout, cfg.ProcessTimeout)
	}
	return cfg, nil
}

// ExtensionAllowed reports whether a filename extension (without dot) is in
// the configured allow list. Comparison is case-insensitive.
func (c *Config) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr     = ":8080"
	defaultEndpoint = "https://models.github.ai/inference"
	defaultModel    = "openai/gpt-4.1"
	defaultTimeout  = 30 * time.Second
	defaultDataDir  = "data"
)

// Config keeps the runtime settings for the service. The AI credential lives
// here and nowhere else; it is never echoed into responses or logs.
type Config struct {
	Addr          string
	Token         string
	AIEndpoint    string
	AIModel       string
	AITimeout     time.Duration
	StorageDriver string
	DataDir       string
	DatabasePath  string
}

// HasCredential reports whether an AI credential is configured. Without one
// the service runs in degraded mode and never performs outbound calls.
func (c Config) HasCredential() bool {
	return c.Token != ""
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Addr:          strings.TrimSpace(os.Getenv("TASKEXTREME_ADDR")),
		Token:         strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		AIEndpoint:    strings.TrimSpace(os.Getenv("AI_ENDPOINT")),
		AIModel:       strings.TrimSpace(os.Getenv("AI_MODEL")),
		AITimeout:     parseSeconds(strings.TrimSpace(os.Getenv("AI_TIMEOUT_SECONDS"))),
		StorageDriver: strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_DRIVER"))),
		DataDir:       strings.TrimSpace(os.Getenv("DATA_DIR")),
		DatabasePath:  strings.TrimSpace(os.Getenv("DATABASE_PATH")),
	}

	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.AIEndpoint == "" {
		cfg.AIEndpoint = defaultEndpoint
	}
	if cfg.AIModel == "" {
		cfg.AIModel = defaultModel
	}
	if cfg.AITimeout == 0 {
		cfg.AITimeout = defaultTimeout
	}
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = "json"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "taskextreme.db"
	}

	switch cfg.StorageDriver {
	case "json", "sqlite":
	default:
		return cfg, fmt.Errorf("STORAGE_DRIVER must be json or sqlite, got %q", cfg.StorageDriver)
	}
	return cfg, nil
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

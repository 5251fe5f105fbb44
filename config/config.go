// Package config loads bookkeeper settings.
//
// Settings are resolved in layers, each overriding the one before:
// built-in defaults, an optional YAML file, a .env file in the working
// directory, and finally BOOKKEEPER_* environment variables.
//
//	# bookkeeper.yaml
//	db: ~/books/data.sqlite
//	log_level: debug
//	export_dir: ~/books/exports
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/bookkeeper/logging"
)

// Environment variables that override file settings.
const (
	EnvDB        = "BOOKKEEPER_DB"
	EnvLogLevel  = "BOOKKEEPER_LOG_LEVEL"
	EnvExportDir = "BOOKKEEPER_EXPORT_DIR"
)

// DefaultDBName is the database file used when no path is configured.
const DefaultDBName = "bookkeeper.sqlite"

// Config holds the resolved settings.
type Config struct {
	DB        string `yaml:"db"`
	LogLevel  string `yaml:"log_level"`
	ExportDir string `yaml:"export_dir"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		DB:        DefaultDBName,
		LogLevel:  "info",
		ExportDir: ".",
	}
}

// Load resolves the configuration. path names an optional YAML file; an empty
// path skips the file layer. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg.DB = getEnvOrDefault(EnvDB, cfg.DB)
	cfg.LogLevel = getEnvOrDefault(EnvLogLevel, cfg.LogLevel)
	cfg.ExportDir = getEnvOrDefault(EnvExportDir, cfg.ExportDir)

	cfg.DB = expandHome(cfg.DB)
	cfg.ExportDir = expandHome(cfg.ExportDir)
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DB) == "" {
		problems = append(problems, "db path must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	if strings.TrimSpace(c.ExportDir) == "" {
		problems = append(problems, "export dir must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

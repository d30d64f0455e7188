package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Data      DataConfig      `yaml:"data"`
	Rotation  RotationConfig  `yaml:"rotation"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type WorkspaceConfig struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

type DataConfig struct {
	// Dir is the tool data directory, relative to the workspace root.
	Dir string `yaml:"dir"`
	// ArchivePath is the history database path. Empty means
	// <workspace>/<dir>/devtrail.db.
	ArchivePath string `yaml:"archive_path"`
}

type RotationConfig struct {
	MaxBytes   int64         `yaml:"max_bytes"`
	MaxEntries int           `yaml:"max_entries"`
	MaxBackups int           `yaml:"max_backups"`
	Interval   time.Duration `yaml:"interval"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Data: DataConfig{
			Dir: ".devtrail",
		},
		Rotation: RotationConfig{
			MaxBytes:   5 * 1024 * 1024,
			MaxEntries: 500,
			MaxBackups: 3,
			Interval:   24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("DEVTRAIL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("DEVTRAIL_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("DEVTRAIL_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEVTRAIL_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("DEVTRAIL_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if wsPath := os.Getenv("DEVTRAIL_WORKSPACE_PATH"); wsPath != "" {
		cfg.Workspace.Path = wsPath
	}
	if wsName := os.Getenv("DEVTRAIL_WORKSPACE_NAME"); wsName != "" {
		cfg.Workspace.Name = wsName
	}
	if dataDir := os.Getenv("DEVTRAIL_DATA_DIR"); dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if archive := os.Getenv("DEVTRAIL_ARCHIVE_PATH"); archive != "" {
		cfg.Data.ArchivePath = archive
	}
	if intervalStr := os.Getenv("DEVTRAIL_ROTATION_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEVTRAIL_ROTATION_INTERVAL: %w", err)
		}
		cfg.Rotation.Interval = interval
	}
	if authStr := os.Getenv("DEVTRAIL_AUTH_ENABLED"); authStr != "" {
		cfg.Auth.Enabled = authStr == "true" || authStr == "1"
	}
	if level := os.Getenv("DEVTRAIL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Workspace.Path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolving workspace path: %w", err)
		}
		cfg.Workspace.Path = wd
	}
	if cfg.Workspace.Name == "" {
		cfg.Workspace.Name = filepath.Base(cfg.Workspace.Path)
	}

	return cfg, nil
}

// LogFilePath returns the activity log location for the configured workspace.
func (c Config) LogFilePath() string {
	return filepath.Join(c.Workspace.Path, c.Data.Dir, "activity.log")
}

// ArchiveDBPath returns the history database location.
func (c Config) ArchiveDBPath() string {
	if c.Data.ArchivePath != "" {
		return c.Data.ArchivePath
	}
	return filepath.Join(c.Workspace.Path, c.Data.Dir, "devtrail.db")
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

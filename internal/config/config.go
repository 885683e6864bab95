// Package config handles application configuration.
// file: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/cowgnition-mcp/pkg/util/stringutil"
)

// Settings represents the runtime configuration for the server.
// It groups related settings together so each subsystem can be handed only
// the slice of configuration it needs.
type Settings struct {
	Server  ServerConfig  `yaml:"server"`
	Limits  LimitsConfig  `yaml:"limits"`
	Logging LoggingConfig `yaml:"logging"`
	Tasks   TasksConfig   `yaml:"tasks"`
}

// ServerConfig identifies the running server to clients during the
// initialize handshake.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LimitsConfig bounds the resources a single session may consume.
type LimitsConfig struct {
	// MaxMessageSize is the hard cap, in bytes, the codec enforces on any
	// single framed message in either direction.
	MaxMessageSize int `yaml:"max_message_size"`

	// DefaultTimeoutSecs is the per-request budget applied to every request.
	// Zero means no deadline.
	DefaultTimeoutSecs int `yaml:"default_timeout_secs"`
}

// LoggingConfig controls the process-wide log filter.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TasksConfig controls background task bookkeeping.
type TasksConfig struct {
	// CleanupMaxAge is how long a terminal task's record is retained before
	// cleanup_completed may reap it, expressed in seconds.
	CleanupMaxAge int `yaml:"cleanup_max_age_secs"`
}

const (
	defaultMaxMessageSize    = 10 * 1024 * 1024 // 10 MiB, per the wire protocol default.
	defaultTimeoutSecs       = 30
	defaultCleanupMaxAgeSecs = 3600
)

// New returns Settings populated with sensible defaults, so the server can
// run out-of-the-box without a config file.
func New() *Settings {
	return &Settings{
		Server: ServerConfig{
			Name:    "cowgnition-mcp",
			Version: "0.1.0",
		},
		Limits: LimitsConfig{
			MaxMessageSize:     defaultMaxMessageSize,
			DefaultTimeoutSecs: defaultTimeoutSecs,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Tasks: TasksConfig{
			CleanupMaxAge: defaultCleanupMaxAgeSecs,
		},
	}
}

// LoadConfig reads a YAML configuration file, applying defaults for any
// field the file omits and then environment-variable overrides on top.
func LoadConfig(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	if cfg.Server.Name == "" {
		return nil, fmt.Errorf("config %q: server.name must not be empty", path)
	}
	if cfg.Limits.MaxMessageSize <= 0 {
		return nil, fmt.Errorf("config %q: limits.max_message_size must be positive", path)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides layers the environment variables the core honors on top
// of a loaded configuration. FASTMCP_LOG sets the log level, MAX_MESSAGE_SIZE
// (a positive integer) the maximum message size, and MCP_SERVER_NAME the
// server name. FASTMCP_NO_BANNER is not read here; no rendering lives in
// this module.
func applyEnvOverrides(cfg *Settings) {
	if v := os.Getenv("FASTMCP_LOG"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MAX_MESSAGE_SIZE"); v != "" {
		if n, err := parseInt(v); err == nil && n > 0 {
			cfg.Limits.MaxMessageSize = n
		}
	}
	cfg.Server.Name = stringutil.CoalesceString(os.Getenv("MCP_SERVER_NAME"), cfg.Server.Name)
}

// GetServerName returns the server name advertised to clients.
func (s *Settings) GetServerName() string {
	return s.Server.Name
}

// expandPath expands a leading ~ to the user's home directory, returning the
// input unchanged if expansion fails or is not applicable.
func expandPath(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands ~ in paths to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, path[1:]), nil
}

// parseInt parses a base-10 integer, rejecting empty or malformed input.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty integer string")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return n, nil
}

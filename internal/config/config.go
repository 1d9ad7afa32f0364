package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/codefionn/yardcalc/internal/consts"
	"github.com/codefionn/yardcalc/internal/features"
)

const appName = "yardcalc"

// ServerConfig holds configuration for the HTTP/WebSocket server
type ServerConfig struct {
	Addr                string `json:"addr"`
	MaxConnections      int    `json:"max_connections"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
	PidFile             string `json:"pid_file,omitempty"`
}

// ReadTimeout returns the read timeout as a duration
func (s ServerConfig) ReadTimeout() time.Duration {
	if s.ReadTimeoutSeconds <= 0 {
		return consts.DefaultReadTimeout
	}
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration
func (s ServerConfig) WriteTimeout() time.Duration {
	if s.WriteTimeoutSeconds <= 0 {
		return consts.DefaultWriteTimeout
	}
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// Config represents application configuration
type Config struct {
	LogLevel           string       `json:"log_level"` // trace, debug, info, warn, error, none
	LogPath            string       `json:"log_path,omitempty"`
	LegacyNumerals     bool         `json:"legacy_numerals"`
	LegacyUnary        bool         `json:"legacy_unary"`
	RightAssocExponent bool         `json:"right_assoc_exponent"`
	BatchWorkers       int          `json:"batch_workers"`
	HistoryPath        string       `json:"history_path"` // empty disables history
	HistoryLimit       int          `json:"history_limit"`
	Server             ServerConfig `json:"server"`
}

func defaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := strings.TrimSpace(os.Getenv("APPDATA")); appData != "" {
			return filepath.Join(appData, appName)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Roaming", appName)
	default:
		if configHome := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); configHome != "" {
			return filepath.Join(configHome, appName)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", appName)
	}
}

func defaultStateDir() string {
	switch runtime.GOOS {
	case "linux":
		if stateHome := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); stateHome != "" {
			return filepath.Join(stateHome, appName)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".local", "state", appName)
	case "windows":
		if localAppData := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); localAppData != "" {
			return filepath.Join(localAppData, appName)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Local", appName)
	default:
		return defaultConfigDir()
	}
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "none",
		BatchWorkers: consts.DefaultBatchWorkers,
		HistoryPath:  filepath.Join(defaultStateDir(), "history.db"),
		HistoryLimit: consts.DefaultHistoryLimit,
		Server: ServerConfig{
			Addr:                consts.DefaultServerAddr,
			MaxConnections:      consts.DefaultMaxConnections,
			ReadTimeoutSeconds:  int(consts.DefaultReadTimeout / time.Second),
			WriteTimeoutSeconds: int(consts.DefaultWriteTimeout / time.Second),
		},
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal into default config (overrides only provided fields)
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Ensure critical fields have defaults if still empty
	if config.LogLevel == "" {
		config.LogLevel = "none"
	}
	if config.BatchWorkers <= 0 {
		config.BatchWorkers = consts.DefaultBatchWorkers
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = consts.DefaultHistoryLimit
	}
	if config.Server.Addr == "" {
		config.Server.Addr = consts.DefaultServerAddr
	}
	if config.Server.MaxConnections <= 0 {
		config.Server.MaxConnections = consts.DefaultMaxConnections
	}

	return config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Features returns the compatibility switches described by the config
func (c *Config) Features() *features.FeatureFlags {
	flags := features.NewFeatureFlags()
	flags.Set(features.LegacyNumerals, c.LegacyNumerals)
	flags.Set(features.LegacyUnary, c.LegacyUnary)
	flags.Set(features.RightAssocExponent, c.RightAssocExponent)
	return flags
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.json")
}

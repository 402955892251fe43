package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TraceConfig represents trace comparison configuration
type TraceConfig struct {
	// Prefix is the marker instrumented solvers put on trace lines
	Prefix string `yaml:"prefix"`

	// DisplayLimit caps how many trace differences reports and console
	// output show. The comparison itself is never capped.
	DisplayLimit int `yaml:"display_limit"`
}

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled enables recording runs to the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config represents xraycheck configuration options
type Config struct {
	// RunsDir is the directory run folders are created under
	RunsDir string `yaml:"runs_dir"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// DefaultTricks is the tricks-per-hand fallback when no deal file is
	// given and no override flag is set
	DefaultTricks int `yaml:"default_tricks"`

	// Trace contains trace comparison configuration
	Trace TraceConfig `yaml:"trace"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		RunsDir:       "runs",
		LogLevel:      "info",
		DefaultTricks: 13,
		Trace: TraceConfig{
			Prefix:       "XRAY ",
			DisplayLimit: 5,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  ".xraycheck/history.db",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults). Booleans
	// need presence detection so an explicit "enabled: false" is honored.
	if fileCfg.RunsDir != "" {
		cfg.RunsDir = fileCfg.RunsDir
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.DefaultTricks != 0 {
		cfg.DefaultTricks = fileCfg.DefaultTricks
	}
	if fileCfg.Trace.Prefix != "" {
		cfg.Trace.Prefix = fileCfg.Trace.Prefix
	}
	if fileCfg.Trace.DisplayLimit != 0 {
		cfg.Trace.DisplayLimit = fileCfg.Trace.DisplayLimit
	}
	if fileCfg.History.DBPath != "" {
		cfg.History.DBPath = fileCfg.History.DBPath
	}

	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			historyMap, _ := historySection.(map[string]interface{})
			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = fileCfg.History.Enabled
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .xraycheck/config.yaml in the
// specified directory. If the directory or file doesn't exist, returns
// default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".xraycheck", "config.yaml")
	return LoadConfig(configPath)
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.RunsDir == "" {
		return fmt.Errorf("runs_dir cannot be empty")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.DefaultTricks < 1 || c.DefaultTricks > 13 {
		return fmt.Errorf("default_tricks must be in [1, 13], got %d", c.DefaultTricks)
	}

	if c.Trace.Prefix == "" {
		return fmt.Errorf("trace.prefix cannot be empty")
	}
	if c.Trace.DisplayLimit < 1 {
		return fmt.Errorf("trace.display_limit must be > 0, got %d", c.Trace.DisplayLimit)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}

// Package config provides configuration loading and validation for promptctl.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Standard config file location.
const defaultConfigPath = "~/.config/promptctl/config.json"

// Config holds all promptctl configuration settings.
type Config struct {
	Region       string          `json:"region"`        // AWS region; empty uses the default chain
	Profile      string          `json:"profile"`       // AWS shared config profile; empty uses the default
	DatabasePath string          `json:"database_path"` // Local prompt record database
	LogLevel     string          `json:"log_level"`
	Registry     RegistryConfig  `json:"registry"`
	Inference    InferenceConfig `json:"inference"`

	// expandedPaths tracks whether ExpandPaths has been called.
	expandedPaths bool
}

// RegistryConfig holds defaults applied to prompt registry writes.
type RegistryConfig struct {
	VariantName string `json:"variant_name"`
	ModelID     string `json:"model_id"`
}

// InferenceConfig holds default inference settings attached to created
// prompt variants. Zero values mean "not set" and are omitted from
// requests.
type InferenceConfig struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	MaxTokens     int      `json:"max_tokens"`
	StopSequences []string `json:"stop_sequences"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: "~/.local/share/promptctl/promptctl.db",
		LogLevel:     "info",
		Registry: RegistryConfig{
			VariantName: "variant-001",
		},
	}
}

// Load reads config from the standard location (~/.config/promptctl/config.json),
// falling back to defaults if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// If the file doesn't exist, returns default config.
// If the file exists but is invalid, returns an error.
func LoadFromPath(path string) (*Config, error) {
	// Start with default config.
	cfg := DefaultConfig()

	// Check if config file exists.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// No config file - use all defaults.
		if err := cfg.ExpandPaths(); err != nil {
			return nil, fmt.Errorf("failed to expand paths: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into a temporary struct for merging.
	var fileCfg fileConfig
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge file values over defaults (only set values).
	mergeConfig(cfg, &fileCfg)

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// fileConfig is used for parsing JSON with pointer fields to detect what was set.
type fileConfig struct {
	Region       *string              `json:"region"`
	Profile      *string              `json:"profile"`
	DatabasePath *string              `json:"database_path"`
	LogLevel     *string              `json:"log_level"`
	Registry     *fileRegistryConfig  `json:"registry"`
	Inference    *fileInferenceConfig `json:"inference"`
}

type fileRegistryConfig struct {
	VariantName *string `json:"variant_name"`
	ModelID     *string `json:"model_id"`
}

type fileInferenceConfig struct {
	Temperature   *float64  `json:"temperature"`
	TopP          *float64  `json:"top_p"`
	MaxTokens     *int      `json:"max_tokens"`
	StopSequences *[]string `json:"stop_sequences"`
}

// mergeConfig merges file config values into the default config.
// Only non-nil values from the file config are applied.
func mergeConfig(cfg *Config, fileCfg *fileConfig) {
	if fileCfg.Region != nil {
		cfg.Region = *fileCfg.Region
	}
	if fileCfg.Profile != nil {
		cfg.Profile = *fileCfg.Profile
	}
	if fileCfg.DatabasePath != nil {
		cfg.DatabasePath = *fileCfg.DatabasePath
	}
	if fileCfg.LogLevel != nil {
		cfg.LogLevel = *fileCfg.LogLevel
	}

	if fileCfg.Registry != nil {
		if fileCfg.Registry.VariantName != nil {
			cfg.Registry.VariantName = *fileCfg.Registry.VariantName
		}
		if fileCfg.Registry.ModelID != nil {
			cfg.Registry.ModelID = *fileCfg.Registry.ModelID
		}
	}

	if fileCfg.Inference != nil {
		if fileCfg.Inference.Temperature != nil {
			cfg.Inference.Temperature = *fileCfg.Inference.Temperature
		}
		if fileCfg.Inference.TopP != nil {
			cfg.Inference.TopP = *fileCfg.Inference.TopP
		}
		if fileCfg.Inference.MaxTokens != nil {
			cfg.Inference.MaxTokens = *fileCfg.Inference.MaxTokens
		}
		if fileCfg.Inference.StopSequences != nil {
			cfg.Inference.StopSequences = *fileCfg.Inference.StopSequences
		}
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Registry.VariantName == "" {
		errs = append(errs, errors.New("registry.variant_name must be non-empty"))
	}

	if c.Inference.Temperature < 0 || c.Inference.Temperature > 1 {
		errs = append(errs, errors.New("inference.temperature must be between 0 and 1"))
	}

	if c.Inference.TopP < 0 || c.Inference.TopP > 1 {
		errs = append(errs, errors.New("inference.top_p must be between 0 and 1"))
	}

	if c.Inference.MaxTokens < 0 {
		errs = append(errs, errors.New("inference.max_tokens must be >= 0"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error: %q", c.LogLevel))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ExpandPaths expands ~ to home directory in all path fields.
func (c *Config) ExpandPaths() error {
	if c.expandedPaths {
		return nil
	}

	var err error

	c.DatabasePath, err = expandPath(c.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to expand database_path: %w", err)
	}

	c.expandedPaths = true
	return nil
}

// expandPath expands ~ to the user's home directory.
// It also handles relative paths by making them absolute.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	// Expand ~
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	// Clean the path.
	return filepath.Clean(path), nil
}

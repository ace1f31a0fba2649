package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromPath_MissingFile(t *testing.T) {
	// Missing file should return default config (not an error)
	cfg, err := LoadFromPath("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected default config for missing file, got error: %v", err)
	}

	// Check defaults
	if cfg.Registry.VariantName != "variant-001" {
		t.Errorf("expected default variant_name=variant-001, got %q", cfg.Registry.VariantName)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log_level=info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromPath_ValidMinimalConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// Minimal valid config with just a region.
	configJSON := `{"region": "eu-west-1"}`

	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Region != "eu-west-1" {
		t.Errorf("expected region=eu-west-1, got %q", cfg.Region)
	}

	// Check defaults were applied for other fields
	if cfg.Registry.VariantName != "variant-001" {
		t.Errorf("expected default variant_name=variant-001, got %q", cfg.Registry.VariantName)
	}
	if cfg.DatabasePath == "" {
		t.Error("expected default database_path to be set")
	}
}

func TestLoadFromPath_FullConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"region": "us-east-1",
		"profile": "prompts",
		"log_level": "debug",
		"registry": {
			"variant_name": "draft",
			"model_id": "anthropic.claude-3-haiku"
		},
		"inference": {
			"temperature": 0.3,
			"top_p": 0.9,
			"max_tokens": 1024,
			"stop_sequences": ["Human:"]
		}
	}`

	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Region != "us-east-1" {
		t.Errorf("region = %q", cfg.Region)
	}
	if cfg.Profile != "prompts" {
		t.Errorf("profile = %q", cfg.Profile)
	}
	if cfg.Registry.VariantName != "draft" {
		t.Errorf("variant_name = %q", cfg.Registry.VariantName)
	}
	if cfg.Registry.ModelID != "anthropic.claude-3-haiku" {
		t.Errorf("model_id = %q", cfg.Registry.ModelID)
	}
	if cfg.Inference.Temperature != 0.3 {
		t.Errorf("temperature = %v", cfg.Inference.Temperature)
	}
	if cfg.Inference.MaxTokens != 1024 {
		t.Errorf("max_tokens = %d", cfg.Inference.MaxTokens)
	}
	if len(cfg.Inference.StopSequences) != 1 || cfg.Inference.StopSequences[0] != "Human:" {
		t.Errorf("stop_sequences = %v", cfg.Inference.StopSequences)
	}
}

func TestLoadFromPath_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadFromPath(configPath)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should mention parsing, got: %v", err)
	}
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"empty variant name", `{"registry": {"variant_name": ""}}`, "variant_name"},
		{"temperature out of range", `{"inference": {"temperature": 1.5}}`, "temperature"},
		{"top_p out of range", `{"inference": {"top_p": -0.1}}`, "top_p"},
		{"negative max tokens", `{"inference": {"max_tokens": -1}}`, "max_tokens"},
		{"bad log level", `{"log_level": "loud"}`, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.json")
			if err := os.WriteFile(configPath, []byte(tt.json), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			_, err := LoadFromPath(configPath)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestExpandPaths_Tilde(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ExpandPaths(); err != nil {
		t.Fatalf("ExpandPaths returned error: %v", err)
	}

	if strings.HasPrefix(cfg.DatabasePath, "~") {
		t.Errorf("database_path should be expanded, got %q", cfg.DatabasePath)
	}
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/gerund/promptctl/internal/config"
	"github.com/gerund/promptctl/internal/db"
	"github.com/gerund/promptctl/internal/log"
	"github.com/gerund/promptctl/internal/registry"
)

// newClient builds a registry client from the loaded configuration.
func newClient(ctx context.Context, cfg *config.Config) (*registry.Client, error) {
	return registry.New(ctx, cfg.Region, cfg.Profile)
}

// openDatabase opens the local prompt record database.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	return db.New(cfg.DatabasePath)
}

// closeDatabase closes the database, logging rather than failing on error.
func closeDatabase(database *db.DB) {
	log.CloseError("database", database.Close())
}

// inferenceFromConfig converts configured inference defaults into the
// request form. Zero values are treated as unset; nil is returned when
// nothing is configured.
func inferenceFromConfig(cfg config.InferenceConfig) *registry.InferenceConfig {
	inf := &registry.InferenceConfig{}
	set := false

	if cfg.Temperature != 0 {
		inf.Temperature = aws.Float32(float32(cfg.Temperature))
		set = true
	}
	if cfg.TopP != 0 {
		inf.TopP = aws.Float32(float32(cfg.TopP))
		set = true
	}
	if cfg.MaxTokens != 0 {
		inf.MaxTokens = aws.Int32(int32(cfg.MaxTokens))
		set = true
	}
	if len(cfg.StopSequences) > 0 {
		inf.StopSequences = cfg.StopSequences
		set = true
	}

	if !set {
		return nil
	}
	return inf
}

// parseKeyValues parses repeated key=value flag entries.
func parseKeyValues(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid key=value entry: %q", entry)
		}
		out[key] = value
	}
	return out, nil
}

// resolveRemoteID maps a --name flag to a registry prompt id using the
// local database. Returns the given id unchanged when set.
func resolveRemoteID(database *db.DB, id, name string) (string, error) {
	if id != "" || name == "" {
		return id, nil
	}
	record, err := database.GetPromptByName(name)
	if err != nil {
		return "", fmt.Errorf("no local record for prompt %q: %w", name, err)
	}
	return record.RemoteID, nil
}

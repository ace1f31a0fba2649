package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerund/promptctl/internal/db"
	"github.com/gerund/promptctl/internal/log"
	"github.com/gerund/promptctl/internal/registry"
)

func publishCmd() *cobra.Command {
	var id, name, description string
	var tags []string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Snapshot a prompt draft as an immutable version",
		Long: `Publish the current draft of a prompt as a new immutable version.

The prompt is selected by --id or --name. With neither, the most
recently pushed prompt from the local database is used.

Examples:
  promptctl publish --name greeting
  promptctl publish --id ABC123XYZ -d "tuned wording"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, id, name, description, tags)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Registry prompt id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Prompt name (resolved locally)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Version description")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag as key=value (repeatable)")

	return cmd
}

func runPublish(cmd *cobra.Command, id, name, description string, tagEntries []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tags, err := parseKeyValues(tagEntries)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(database)

	id, err = resolveRemoteID(database, id, name)
	if err != nil {
		return err
	}
	if id == "" {
		// No selector given: fall back to the most recently pushed prompt.
		last, err := database.LastPrompt()
		if err != nil {
			return err
		}
		if last != nil {
			id = last.RemoteID
		}
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := client.CreateVersion(ctx, id, registry.VersionOptions{
		Description: description,
		Tags:        tags,
	})
	if err != nil {
		return err
	}
	log.Info("created version", "id", result.ID, "version", result.Version)

	// Track the version locally if the prompt came from this machine.
	record, err := database.GetPromptByRemoteID(result.ID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		log.Debug("no local record for prompt, skipping version record", "id", result.ID)
	case err != nil:
		return err
	default:
		version := &db.VersionRecord{
			PromptID:    record.ID,
			Version:     result.Version,
			Description: description,
		}
		if err := database.RecordVersion(version); err != nil {
			return fmt.Errorf("version created but local record failed: %w", err)
		}
	}

	fmt.Printf("Published version %s of prompt %s\n", result.Version, result.ID)
	return nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerund/promptctl/internal/db"
	"github.com/gerund/promptctl/internal/log"
	"github.com/gerund/promptctl/internal/registry"
)

func deleteCmd() *cobra.Command {
	var id, name, version string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a prompt or a single version from the registry",
		Long: `Delete a prompt by id or name. With --version only that version is
removed; otherwise the whole prompt is deleted along with its local
record.

Examples:
  promptctl delete --name greeting
  promptctl delete --id ABC123XYZ --version 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, id, name, version)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Registry prompt id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Prompt name")
	cmd.Flags().StringVarP(&version, "version", "v", "", "Delete only this version")

	return cmd
}

func runDelete(cmd *cobra.Command, id, name, version string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(database)

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	// Resolve a name locally first, then fall back to a registry listing.
	if id == "" && name != "" {
		id, err = resolveRemoteID(database, "", name)
		if errors.Is(err, db.ErrNotFound) {
			summaries, listErr := client.List(ctx, registry.ListOptions{Name: name})
			if listErr != nil {
				return listErr
			}
			if len(summaries) == 0 {
				return fmt.Errorf("%w: name %q", registry.ErrNotFound, name)
			}
			id = summaries[0].ID
		} else if err != nil {
			return err
		}
	}

	deletedID, err := client.Delete(ctx, id, version)
	if err != nil {
		return err
	}

	// Only a full delete removes the local record.
	if version == "" {
		if err := database.DeletePromptByRemoteID(deletedID); err != nil && !errors.Is(err, db.ErrNotFound) {
			log.Warn("failed to delete local record", "id", deletedID, "error", err)
		}
	}

	if version != "" {
		fmt.Printf("Deleted version %s of prompt %s\n", version, deletedID)
	} else {
		fmt.Printf("Deleted prompt %s\n", deletedID)
	}
	return nil
}

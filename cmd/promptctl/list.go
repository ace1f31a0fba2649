package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerund/promptctl/internal/registry"
)

func listCmd() *cobra.Command {
	var name string
	var max int32
	var local bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts in the registry",
		Long: `List prompts known to the registry, optionally filtered by name.

With --local, list the prompts recorded in the local database instead of
calling the registry.

Examples:
  promptctl list
  promptctl list --name greeting
  promptctl list --local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if local {
				return runListLocal()
			}
			return runList(cmd, name, max)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Filter by exact prompt name")
	cmd.Flags().Int32Var(&max, "max", 0, "Maximum results (default 100)")
	cmd.Flags().BoolVar(&local, "local", false, "List locally recorded prompts")

	return cmd
}

func runList(cmd *cobra.Command, name string, max int32) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	summaries, err := client.List(ctx, registry.ListOptions{
		Name:       name,
		MaxResults: max,
	})
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No prompts found")
		return nil
	}
	for _, s := range summaries {
		line := fmt.Sprintf("%s  %s", s.ID, s.Name)
		if s.Version != "" {
			line += fmt.Sprintf("  (version %s)", s.Version)
		}
		if s.Description != "" {
			line += "  " + s.Description
		}
		fmt.Println(line)
	}
	return nil
}

func runListLocal() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(database)

	records, err := database.ListPrompts()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No prompts recorded locally")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %s  [%s]  pushed %s\n",
			r.RemoteID, r.Name, r.Kind, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

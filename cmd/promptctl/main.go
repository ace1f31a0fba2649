// Package main is the entry point for the promptctl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerund/promptctl/internal/config"
	"github.com/gerund/promptctl/internal/log"
)

// Persistent flags shared by every subcommand.
var (
	configPath  string
	regionFlag  string
	profileFlag string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promptctl",
		Short: "promptctl manages prompt templates in a remote prompt registry",
		Long: `promptctl pushes structured prompt templates to the Bedrock Agent prompt
registry and pulls them back. Chat templates are flattened into a single
text document on push and reconstructed into messages on pull; plain
templates pass through with their input variables.

Pushed prompts are tracked in a local database so later commands can
refer to them by name without an id.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ~/.config/promptctl/config.json)")
	cmd.PersistentFlags().StringVar(&regionFlag, "region", "", "AWS region override")
	cmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "AWS profile override")

	cmd.AddCommand(pushCmd())
	cmd.AddCommand(publishCmd())
	cmd.AddCommand(pullCmd())
	cmd.AddCommand(listCmd())
	cmd.AddCommand(deleteCmd())
	cmd.AddCommand(renderCmd())
	cmd.AddCommand(configCmd())

	return cmd
}

// loadConfig loads configuration, applies command-line overrides and
// sets the global log level.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if regionFlag != "" {
		cfg.Region = regionFlag
	}
	if profileFlag != "" {
		cfg.Profile = profileFlag
	}

	log.SetLevel(log.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

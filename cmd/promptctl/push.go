package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gerund/promptctl/internal/db"
	"github.com/gerund/promptctl/internal/log"
	"github.com/gerund/promptctl/internal/prompt"
	"github.com/gerund/promptctl/internal/registry"
)

func pushCmd() *cobra.Command {
	var name, description, variant, modelID string
	var tags []string

	cmd := &cobra.Command{
		Use:   "push <template-file>",
		Short: "Create a prompt in the registry from a template file",
		Long: `Push a template file to the registry as a new prompt draft.

Chat templates are flattened into a single text document; plain templates
are stored as-is with their input variables. The created prompt is
recorded locally so other commands can refer to it by name.

Examples:
  promptctl push greeting.json --name greeting
  promptctl push qa.json --name qa --model anthropic.claude-3-haiku-20240307-v1:0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd, args[0], name, description, variant, modelID, tags)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Prompt name (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Prompt description")
	cmd.Flags().StringVar(&variant, "variant", "", "Variant name (default from config)")
	cmd.Flags().StringVarP(&modelID, "model", "m", "", "Model id attached to the variant")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runPush(cmd *cobra.Command, path, name, description, variant, modelID string, tagEntries []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tmpl, err := prompt.LoadTemplateFile(path)
	if err != nil {
		return err
	}

	tags, err := parseKeyValues(tagEntries)
	if err != nil {
		return err
	}

	if variant == "" {
		variant = cfg.Registry.VariantName
	}
	if modelID == "" {
		modelID = cfg.Registry.ModelID
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := client.CreatePrompt(ctx, tmpl, name, registry.CreateOptions{
		VariantName: variant,
		Description: description,
		Tags:        tags,
		ModelID:     modelID,
		Inference:   inferenceFromConfig(cfg.Inference),
	})
	if err != nil {
		return err
	}
	log.Info("created prompt", "id", result.ID, "name", result.Name)

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(database)

	kind := db.KindPlain
	var variables []string
	switch t := tmpl.(type) {
	case prompt.ChatTemplate:
		kind = db.KindChat
		_, variables, _ = prompt.Encode(t)
	case prompt.PlainTemplate:
		variables = t.InputVariables
	}

	record := &db.PromptRecord{
		ID:          uuid.NewString(),
		RemoteID:    result.ID,
		ARN:         result.ARN,
		Name:        name,
		Description: description,
		VariantName: variant,
		ModelID:     modelID,
		Kind:        kind,
		Variables:   variables,
	}
	if err := database.RecordPrompt(record); err != nil {
		return fmt.Errorf("prompt created but local record failed: %w", err)
	}

	fmt.Printf("Created prompt %s (id %s)\n", name, result.ID)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/spf13/cobra"

	"github.com/gerund/promptctl/internal/prompt"
	"github.com/gerund/promptctl/internal/registry"
	"github.com/gerund/promptctl/internal/render"
)

func renderCmd() *cobra.Command {
	var id, name, version, provider string
	var vars []string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Pull a prompt and render it as a provider request payload",
		Long: `Pull a prompt and substitute variable values into its messages, then
print the result in the message format of an LLM provider API.

Chat prompts render message-by-message; template messages have their
{variable} markers filled and placeholder slots are dropped (the CLI has
no conversation history to splice in). Plain prompts render as a single
user message.

Examples:
  promptctl render --name qa --var question="What is Go?"
  promptctl render --name qa --provider anthropic --var question=hi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, id, name, version, provider, vars)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Registry prompt id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Prompt name")
	cmd.Flags().StringVarP(&version, "version", "v", "", "Prompt version (default: draft)")
	cmd.Flags().StringVarP(&provider, "provider", "p", "openai", "Output format: openai or anthropic")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Variable value as name=value (repeatable)")

	return cmd
}

// anthropicPayload is the JSON shape printed for --provider anthropic.
type anthropicPayload struct {
	System   string              `json:"system,omitempty"`
	Messages []anthropic.Message `json:"messages"`
}

func runRender(cmd *cobra.Command, id, name, version, provider string, varEntries []string) error {
	if provider != "openai" && provider != "anthropic" {
		return fmt.Errorf("unknown provider %q (want openai or anthropic)", provider)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	variables, err := parseKeyValues(varEntries)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	p, err := client.Get(ctx, registry.GetOptions{ID: id, Name: name, Version: version})
	if err != nil {
		return err
	}

	var messages []prompt.Message
	switch t := p.Template.(type) {
	case prompt.ChatTemplate:
		messages = t.Messages
	case prompt.PlainTemplate:
		filled, err := render.FillStoredText(t.Template, variables)
		if err != nil {
			return err
		}
		messages = []prompt.Message{prompt.StaticMessage{Role: prompt.RoleHuman, Content: filled}}
	}

	values := render.Values{Variables: variables}

	var payload any
	switch provider {
	case "openai":
		payload, err = render.OpenAIMessages(messages, values)
		if err != nil {
			return err
		}
	case "anthropic":
		system, out, rerr := render.AnthropicMessages(messages, values)
		if rerr != nil {
			return rerr
		}
		payload = anthropicPayload{System: system, Messages: out}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

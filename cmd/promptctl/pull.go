package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerund/promptctl/internal/prompt"
	"github.com/gerund/promptctl/internal/registry"
)

func pullCmd() *cobra.Command {
	var id, name, version string
	var plain, asJSON bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch a prompt from the registry",
		Long: `Pull a prompt by id or name. Names are resolved through a registry
listing; an exact match wins.

By default the stored text is printed as-is. With --json, chat-shaped
text is decoded back into structured messages first. --plain skips chat
detection and always treats the text as a plain template.

Examples:
  promptctl pull --name greeting
  promptctl pull --id ABC123XYZ --version 1 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(cmd, id, name, version, plain, asJSON)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Registry prompt id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Prompt name")
	cmd.Flags().StringVarP(&version, "version", "v", "", "Prompt version (default: draft)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Treat the stored text as a plain template")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the decoded template as JSON")

	return cmd
}

// pulledPrompt is the JSON shape printed by pull --json.
type pulledPrompt struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Version   string          `json:"version,omitempty"`
	Kind      string          `json:"kind"`
	Template  string          `json:"template,omitempty"`
	Variables []string        `json:"variables,omitempty"`
	Messages  []pulledMessage `json:"messages,omitempty"`
}

type pulledMessage struct {
	Role        string   `json:"role,omitempty"`
	Content     string   `json:"content,omitempty"`
	Variables   []string `json:"variables,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Template    bool     `json:"is_template,omitempty"`
}

func runPull(cmd *cobra.Command, id, name, version string, plain, asJSON bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	p, err := client.Get(ctx, registry.GetOptions{
		ID:        id,
		Name:      name,
		Version:   version,
		PlainText: plain,
	})
	if err != nil {
		return err
	}

	if !asJSON {
		fmt.Println(p.Text)
		return nil
	}

	out := pulledPrompt{
		ID:      p.ID,
		Name:    p.Name,
		Version: p.Version,
	}
	switch t := p.Template.(type) {
	case prompt.ChatTemplate:
		out.Kind = "chat"
		out.Messages = pulledMessages(t.Messages)
	case prompt.PlainTemplate:
		out.Kind = "plain"
		out.Template = t.Template
		out.Variables = t.InputVariables
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func pulledMessages(messages []prompt.Message) []pulledMessage {
	out := make([]pulledMessage, 0, len(messages))
	for _, m := range messages {
		switch msg := m.(type) {
		case prompt.StaticMessage:
			out = append(out, pulledMessage{Role: msg.Role.Label(), Content: msg.Content})
		case prompt.TemplateMessage:
			out = append(out, pulledMessage{
				Role:      msg.Role.Label(),
				Content:   msg.Content,
				Variables: msg.Variables,
				Template:  true,
			})
		case prompt.Placeholder:
			out = append(out, pulledMessage{Placeholder: msg.VariableName})
		}
	}
	return out
}

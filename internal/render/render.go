// Package render turns decoded prompt templates into provider-ready
// message payloads.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/gerund/promptctl/internal/prompt"
)

// Values supplies the run-time inputs for rendering: variable values for
// template messages and message lists for placeholders. A placeholder
// with no supplied messages expands to nothing.
type Values struct {
	Variables    map[string]string
	Placeholders map[string][]prompt.StaticMessage
}

// Resolve flattens a decoded message list into concrete static messages:
// templates are formatted with the supplied variables and placeholders
// are expanded from the supplied message lists. All template variables
// must have values.
func Resolve(messages []prompt.Message, values Values) ([]prompt.StaticMessage, error) {
	var resolved []prompt.StaticMessage
	for _, msg := range messages {
		switch m := msg.(type) {
		case prompt.StaticMessage:
			resolved = append(resolved, m)
		case prompt.TemplateMessage:
			content, err := prompt.FormatTemplate(m.Content, values.Variables)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, prompt.StaticMessage{Role: m.Role, Content: content})
		case prompt.Placeholder:
			resolved = append(resolved, values.Placeholders[m.VariableName]...)
		}
	}
	return resolved, nil
}

// OpenAIMessages renders a decoded chat prompt as OpenAI chat completion
// messages. Human maps to user, AI to assistant, System to system; roles
// outside the three map to system, matching the decoder's fallback.
func OpenAIMessages(messages []prompt.Message, values Values) ([]openai.ChatCompletionMessage, error) {
	resolved, err := Resolve(messages, values)
	if err != nil {
		return nil, err
	}

	out := make([]openai.ChatCompletionMessage, 0, len(resolved))
	for _, m := range resolved {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openAIRole(m.Role),
			Content: m.Content,
		})
	}
	return out, nil
}

func openAIRole(role prompt.Role) string {
	switch role {
	case prompt.RoleHuman:
		return openai.ChatMessageRoleUser
	case prompt.RoleAI:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleSystem
	}
}

// AnthropicMessages renders a decoded chat prompt for the Anthropic
// Messages API: system-role content is folded into the returned system
// string (the API carries it outside the message list), Human maps to
// user and AI to assistant.
func AnthropicMessages(messages []prompt.Message, values Values) (string, []anthropic.Message, error) {
	resolved, err := Resolve(messages, values)
	if err != nil {
		return "", nil, err
	}

	var system []string
	var out []anthropic.Message
	for _, m := range resolved {
		switch m.Role {
		case prompt.RoleHuman:
			out = append(out, anthropic.NewUserTextMessage(m.Content))
		case prompt.RoleAI:
			out = append(out, anthropic.NewAssistantTextMessage(m.Content))
		default:
			system = append(system, m.Content)
		}
	}
	return strings.Join(system, "\n\n"), out, nil
}

// storedMarker matches the registry's native {{name}} variable syntax.
var storedMarker = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// FillStoredText substitutes {{name}} markers in stored plain-template
// text. This is the registry's own variable syntax, so plain prompts
// render without going through the chat decoder.
func FillStoredText(text string, values map[string]string) (string, error) {
	var missing []string
	out := storedMarker.ReplaceAllStringFunc(text, func(marker string) string {
		name := storedMarker.FindStringSubmatch(marker)[1]
		value, ok := values[name]
		if !ok {
			missing = append(missing, name)
			return marker
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing values for variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

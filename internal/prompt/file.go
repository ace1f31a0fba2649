package prompt

import (
	"encoding/json"
	"fmt"
	"os"
)

// templateFile is the on-disk JSON form of a template.
type templateFile struct {
	Type           string        `json:"type"` // "chat" or "plain"
	Template       string        `json:"template"`
	InputVariables []string      `json:"input_variables"`
	Messages       []messageFile `json:"messages"`
}

// messageFile is one entry of a chat template file. Exactly one of
// Placeholder, Template or Content selects the message kind.
type messageFile struct {
	Role        string   `json:"role"`
	Content     string   `json:"content"`
	Template    string   `json:"template"`
	Variables   []string `json:"variables"`
	Placeholder string   `json:"placeholder"`
}

// LoadTemplateFile reads a template definition from a JSON file.
//
// Plain form:
//
//	{"type": "plain", "template": "Summarize {doc}", "input_variables": ["doc"]}
//
// Chat form:
//
//	{"type": "chat", "messages": [
//	    {"role": "System", "content": "You are helpful"},
//	    {"placeholder": "history"},
//	    {"role": "Human", "template": "Answer {question}"}
//	]}
//
// A template message with no explicit variables list has it derived by
// scanning the template for {name} markers.
func LoadTemplateFile(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate parses a JSON template definition.
func ParseTemplate(data []byte) (Template, error) {
	var file templateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	switch file.Type {
	case "plain":
		return PlainTemplate{
			Template:       file.Template,
			InputVariables: file.InputVariables,
		}, nil
	case "chat":
		messages := make([]Message, 0, len(file.Messages))
		for i, m := range file.Messages {
			msg, err := m.toMessage()
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			messages = append(messages, msg)
		}
		return ChatTemplate{Messages: messages}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTemplate, file.Type)
	}
}

func (m messageFile) toMessage() (Message, error) {
	if m.Placeholder != "" {
		return Placeholder{VariableName: m.Placeholder}, nil
	}

	role, err := parseFileRole(m.Role)
	if err != nil {
		return nil, err
	}

	if m.Template != "" {
		variables := m.Variables
		if variables == nil {
			variables = TemplateVariables(m.Template)
		}
		return TemplateMessage{Role: role, Content: m.Template, Variables: variables}, nil
	}
	if m.Content != "" {
		return StaticMessage{Role: role, Content: m.Content}, nil
	}
	return nil, fmt.Errorf("message needs a placeholder, template or content field")
}

// parseFileRole is stricter than the wire-format ParseRole: template
// files are authored by hand, so a bad role is an error rather than a
// silent System fallback.
func parseFileRole(label string) (Role, error) {
	switch label {
	case "Human":
		return RoleHuman, nil
	case "AI":
		return RoleAI, nil
	case "System":
		return RoleSystem, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q (want Human, AI or System)", label)
	}
}

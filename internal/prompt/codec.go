package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates message lines within chat-encoded text. It is
// stripped from message content before encoding (not escaped), so
// decoding can split on it unambiguously.
const Delimiter = "\n\n"

// ErrUnsupportedTemplate is returned by Encode for template kinds other
// than PlainTemplate and ChatTemplate.
var ErrUnsupportedTemplate = errors.New("unsupported template kind")

// Escape doubles every brace so the stored text survives the registry's
// {{name}} variable syntax. Applied once, before delimiter stripping.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}

// Unescape is the inverse of Escape. Applied only to content classified
// as templated.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, "{{", "{")
	return strings.ReplaceAll(s, "}}", "}")
}

// StripDelimiter removes every literal occurrence of the delimiter. The
// result never contains the delimiter: a run of n newlines reduces to
// n mod 2 newlines, and the delimiter only ever occurs inside a run.
func StripDelimiter(s string) string {
	return strings.ReplaceAll(s, Delimiter, "")
}

// Encode converts a template to flat text plus its input variable names.
// Plain templates take the escape-only path and pass their declared
// variables through unchanged; chat templates go through EncodeChat.
func Encode(t Template) (string, []string, error) {
	switch tt := t.(type) {
	case PlainTemplate:
		return Escape(tt.Template), tt.InputVariables, nil
	case ChatTemplate:
		text, variables := EncodeChat(tt)
		return text, variables, nil
	default:
		return "", nil, fmt.Errorf("%w: %T", ErrUnsupportedTemplate, t)
	}
}

// EncodeChat converts a chat template to flat text. Each message becomes
// one line: placeholders encode as "{{name}}", everything else as
// "Role: content" with braces doubled and the delimiter stripped from the
// content. Variable names are collected as a set; the returned slice is
// in first-discovery order, which is stable for a given input but not
// contractually sorted.
func EncodeChat(ct ChatTemplate) (string, []string) {
	lines := make([]string, 0, len(ct.Messages))
	seen := make(map[string]struct{})
	var variables []string
	collect := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		variables = append(variables, name)
	}

	for _, msg := range ct.Messages {
		switch m := msg.(type) {
		case Placeholder:
			lines = append(lines, "{{"+m.VariableName+"}}")
			collect(m.VariableName)
		case TemplateMessage:
			for _, name := range m.Variables {
				collect(name)
			}
			lines = append(lines, m.Role.Label()+": "+StripDelimiter(Escape(m.Content)))
		case StaticMessage:
			lines = append(lines, m.Role.Label()+": "+StripDelimiter(Escape(m.Content)))
		}
	}
	return strings.Join(lines, Delimiter), variables
}

// DecodeChat parses chat-encoded text back into an ordered message list.
//
// The parser is lenient and total: it never fails. Empty lines and lines
// with no content after the role label are dropped silently, and
// unrecognized role labels fall back to System. A decoded
// TemplateMessage's Variables field is left nil; it is not re-derived
// from the content (the registry returns declared variables out of band).
func DecodeChat(text string) []Message {
	var messages []Message
	for _, line := range strings.Split(strings.TrimSpace(text), Delimiter) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{{") && strings.HasSuffix(line, "}}") {
			name := strings.TrimSpace(line[2 : len(line)-2])
			messages = append(messages, Placeholder{VariableName: name})
			continue
		}

		label, content, _ := strings.Cut(line, ":")
		label = strings.TrimSpace(label)
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}

		role := ParseRole(label)
		if strings.Contains(content, "{{") && strings.Contains(content, "}}") {
			messages = append(messages, TemplateMessage{Role: role, Content: Unescape(content)})
		} else {
			messages = append(messages, StaticMessage{Role: role, Content: content})
		}
	}
	return messages
}

// IsChatPrompt reports whether stored text should be decoded as a chat
// conversation. It is a prefix sniff against the three role labels, not a
// grammar check: a plain template that happens to begin with "Human:",
// "AI:" or "System:" is misclassified as chat. Callers depend on this
// exact heuristic, so it stays a prefix match with no trimming.
func IsChatPrompt(text string) bool {
	for _, role := range []Role{RoleHuman, RoleAI, RoleSystem} {
		if strings.HasPrefix(text, role.Label()+":") {
			return true
		}
	}
	return false
}

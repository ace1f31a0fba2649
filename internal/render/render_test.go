package render

import (
	"strings"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/gerund/promptctl/internal/prompt"
)

func testMessages() []prompt.Message {
	return []prompt.Message{
		prompt.StaticMessage{Role: prompt.RoleSystem, Content: "You are helpful"},
		prompt.Placeholder{VariableName: "history"},
		prompt.TemplateMessage{Role: prompt.RoleHuman, Content: "Answer {question}"},
	}
}

func TestResolve_ExpandsTemplatesAndPlaceholders(t *testing.T) {
	resolved, err := Resolve(testMessages(), Values{
		Variables: map[string]string{"question": "why is the sky blue"},
		Placeholders: map[string][]prompt.StaticMessage{
			"history": {
				{Role: prompt.RoleHuman, Content: "hello"},
				{Role: prompt.RoleAI, Content: "hi"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if len(resolved) != 4 {
		t.Fatalf("got %d messages, want 4", len(resolved))
	}
	if resolved[1].Content != "hello" || resolved[2].Content != "hi" {
		t.Errorf("placeholder expansion = %+v", resolved[1:3])
	}
	if resolved[3].Content != "Answer why is the sky blue" {
		t.Errorf("template content = %q", resolved[3].Content)
	}
}

func TestResolve_MissingPlaceholderExpandsToNothing(t *testing.T) {
	resolved, err := Resolve(testMessages(), Values{
		Variables: map[string]string{"question": "why"},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("got %d messages, want 2", len(resolved))
	}
}

func TestResolve_MissingVariable(t *testing.T) {
	_, err := Resolve(testMessages(), Values{})
	if err == nil {
		t.Fatal("expected error for missing variable")
	}
	if !strings.Contains(err.Error(), "question") {
		t.Errorf("error %q should name the missing variable", err)
	}
}

func TestOpenAIMessages_RoleMapping(t *testing.T) {
	messages := []prompt.Message{
		prompt.StaticMessage{Role: prompt.RoleSystem, Content: "rules"},
		prompt.StaticMessage{Role: prompt.RoleHuman, Content: "hello"},
		prompt.StaticMessage{Role: prompt.RoleAI, Content: "hi"},
		prompt.StaticMessage{Role: prompt.RoleUnknown, Content: "odd"},
	}

	out, err := OpenAIMessages(messages, Values{})
	if err != nil {
		t.Fatalf("OpenAIMessages returned error: %v", err)
	}

	wantRoles := []string{
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleUser,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleSystem,
	}
	if len(out) != len(wantRoles) {
		t.Fatalf("got %d messages, want %d", len(out), len(wantRoles))
	}
	for i, want := range wantRoles {
		if out[i].Role != want {
			t.Errorf("message %d role = %q, want %q", i, out[i].Role, want)
		}
	}
}

func TestAnthropicMessages_SystemFolding(t *testing.T) {
	messages := []prompt.Message{
		prompt.StaticMessage{Role: prompt.RoleSystem, Content: "be brief"},
		prompt.StaticMessage{Role: prompt.RoleSystem, Content: "be kind"},
		prompt.StaticMessage{Role: prompt.RoleHuman, Content: "hello"},
		prompt.StaticMessage{Role: prompt.RoleAI, Content: "hi"},
	}

	system, out, err := AnthropicMessages(messages, Values{})
	if err != nil {
		t.Fatalf("AnthropicMessages returned error: %v", err)
	}

	if system != "be brief\n\nbe kind" {
		t.Errorf("system = %q", system)
	}
	if len(out) != 2 {
		t.Fatalf("got %d messages, want 2", len(out))
	}
	if out[0].Role != anthropic.RoleUser {
		t.Errorf("first role = %q", out[0].Role)
	}
	if out[1].Role != anthropic.RoleAssistant {
		t.Errorf("second role = %q", out[1].Role)
	}
}

func TestFillStoredText(t *testing.T) {
	got, err := FillStoredText("Summarize {{doc}} in {{lang}}", map[string]string{
		"doc":  "the report",
		"lang": "English",
	})
	if err != nil {
		t.Fatalf("FillStoredText returned error: %v", err)
	}
	if got != "Summarize the report in English" {
		t.Errorf("FillStoredText = %q", got)
	}
}

func TestFillStoredText_Missing(t *testing.T) {
	_, err := FillStoredText("Summarize {{doc}}", nil)
	if err == nil {
		t.Fatal("expected error for missing variable")
	}
	if !strings.Contains(err.Error(), "doc") {
		t.Errorf("error %q should name the missing variable", err)
	}
}

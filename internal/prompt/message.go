// Package prompt implements the text codec between structured prompt
// templates and the flat text format stored by the Bedrock prompt registry.
package prompt

// Role identifies the conversational speaker of a chat message.
type Role int

// Recognized roles. RoleUnknown is a valid encode-time tag for messages
// whose kind matches none of the three speakers, but it is never a decode
// target: "Unknown" on the wire decodes as a System message.
const (
	RoleHuman Role = iota
	RoleAI
	RoleSystem
	RoleUnknown
)

// Label returns the wire label for the role.
func (r Role) Label() string {
	switch r {
	case RoleHuman:
		return "Human"
	case RoleAI:
		return "AI"
	case RoleSystem:
		return "System"
	default:
		return "Unknown"
	}
}

// ParseRole maps a wire label to a role. Any label that is not one of the
// three recognized speakers falls back to RoleSystem, including the
// literal "Unknown" label and typos.
func ParseRole(label string) Role {
	switch label {
	case "Human":
		return RoleHuman
	case "AI":
		return RoleAI
	case "System":
		return RoleSystem
	default:
		return RoleSystem
	}
}

// Message is one entry of a chat template: literal text, templated text,
// or a positional placeholder. The set of implementations is closed;
// EncodeChat switches exhaustively over it.
type Message interface {
	message()
}

// StaticMessage is literal role-tagged text. No substitution happens.
type StaticMessage struct {
	Role    Role
	Content string
}

// TemplateMessage is role-tagged text containing {name} substitution
// markers. Variables lists the names the content references.
type TemplateMessage struct {
	Role      Role
	Content   string
	Variables []string
}

// Placeholder is a positional slot filled at invocation time with an
// externally supplied list of messages. It carries no role of its own.
type Placeholder struct {
	VariableName string
}

func (StaticMessage) message()   {}
func (TemplateMessage) message() {}
func (Placeholder) message()     {}

// Template is a storable prompt template. Exactly two kinds are
// recognized: PlainTemplate and ChatTemplate. Encode rejects anything
// else with ErrUnsupportedTemplate.
type Template interface {
	template()
}

// PlainTemplate is a flat parameter-substitution template with its
// declared input variables.
type PlainTemplate struct {
	Template       string
	InputVariables []string
}

// ChatTemplate is an ordered conversation of messages. Order is
// semantically significant.
type ChatTemplate struct {
	Messages []Message
}

func (PlainTemplate) template() {}
func (ChatTemplate) template()  {}

package assist

import (
	"time"
)

type Role string

const (
	RoleCaller    Role = "caller"
	RoleAssistant Role = "assistant"
)

// Utterance is one finalized piece of transcribed speech.
type Utterance struct {
	Speaker string
	Text    string
	At      time.Time
}

// Turn is one entry in the conversation history.
type Turn struct {
	Role    Role
	Speaker string
	Text    string
	At      time.Time
}

// Fact is a piece of information captured from the conversation
// through a tool call.
type Fact struct {
	Kind  string
	Value string
}

const (
	FactCustomerName = "customer_name"
	FactNote         = "note"
)

// Prompt carries everything a response generator needs for one reply.
type Prompt struct {
	Instructions string
	Context      string
	Query        string
	Tools        []Tool
}

// ToolCall is a tool invocation requested by the response generator.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Completion is the discriminated result of one generation request:
// reply text plus the side effects the model asked for.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// Reply is a finished assistant turn, ready for synthesis.
type Reply struct {
	PersonaID string
	Persona   string
	Voice     string
	Text      string
}

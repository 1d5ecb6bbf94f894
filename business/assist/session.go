package assist

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const defaultContextTurns = 20

// Session is the mutable record for one call: the listening gate, the
// active persona (through the coordinator), the shared conversation
// history, and the captured facts. All mutation goes through its
// methods; nothing is held as ambient state.
type Session struct {
	id           string
	started      time.Time
	gate         *Gate
	coord        *Coordinator
	history      *History
	contextTurns int

	mu           sync.RWMutex
	customerName string
	notes        []string
}

type SessionConfig struct {
	ID           string
	Gate         *Gate
	Coordinator  *Coordinator
	ContextTurns int
}

func NewSession(cfg SessionConfig) *Session {
	contextTurns := cfg.ContextTurns
	if contextTurns <= 0 {
		contextTurns = defaultContextTurns
	}

	return &Session{
		id:           cfg.ID,
		started:      time.Now(),
		gate:         cfg.Gate,
		coord:        cfg.Coordinator,
		history:      NewHistory(),
		contextTurns: contextTurns,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) History() *History {
	return s.history
}

// =====================================================================================================================
// Listening gate

func (s *Session) Evaluate(text string) Decision {
	return s.gate.Evaluate(text)
}

func (s *Session) Mode() Mode {
	return s.gate.Mode()
}

func (s *Session) MarkResponding() {
	s.gate.MarkResponding()
}

func (s *Session) ResetMode() {
	s.gate.Reset()
}

func (s *Session) SetMuted(muted bool) {
	s.gate.SetMuted(muted)
}

// =====================================================================================================================
// Conversation history

func (s *Session) AppendCaller(u Utterance) {
	at := u.At
	if at.IsZero() {
		at = time.Now()
	}

	s.history.Append(Turn{
		Role:    RoleCaller,
		Speaker: u.Speaker,
		Text:    u.Text,
		At:      at,
	})
}

func (s *Session) AppendAssistant(p *Persona, text string) {
	s.history.Append(Turn{
		Role:    RoleAssistant,
		Speaker: p.Name,
		Text:    text,
		At:      time.Now(),
	})
}

// =====================================================================================================================
// Captured facts

// CaptureName stores the customer's name. Capturing again overwrites;
// the same value twice is a no-op.
func (s *Session) CaptureName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerName = name
}

// AddNote records a note. Identical notes are kept once.
func (s *Session) AddNote(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notes {
		if n == note {
			return
		}
	}
	s.notes = append(s.notes, note)
}

func (s *Session) CustomerName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerName
}

func (s *Session) Notes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]string, len(s.notes))
	copy(notes, s.notes)
	return notes
}

func (s *Session) Facts() []Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	facts := make([]Fact, 0, len(s.notes)+1)
	if s.customerName != "" {
		facts = append(facts, Fact{Kind: FactCustomerName, Value: s.customerName})
	}
	for _, n := range s.notes {
		facts = append(facts, Fact{Kind: FactNote, Value: n})
	}
	return facts
}

// =====================================================================================================================
// Handoff

func (s *Session) Active() *Persona {
	return s.coord.Active()
}

func (s *Session) HandoffState() HandoffState {
	return s.coord.State()
}

func (s *Session) Delegate(target string, question string) (*Persona, error) {
	return s.coord.Delegate(target, question)
}

func (s *Session) Return() (*Persona, error) {
	return s.coord.Return()
}

func (s *Session) PendingQuestion() string {
	return s.coord.PendingQuestion()
}

// =====================================================================================================================
// Response generation

// BuildPrompt renders a persona's instructions, the recent history
// with captured facts, and the effective query into one generation
// request.
func (s *Session) BuildPrompt(p *Persona, query string) Prompt {
	return Prompt{
		Instructions: p.Instructions,
		Context:      s.renderContext(),
		Query:        query,
		Tools:        ToolsFor(p),
	}
}

func (s *Session) renderContext() string {
	var b strings.Builder

	if history := s.history.Render(s.contextTurns); history != "" {
		b.WriteString(history)
	}

	if facts := s.Facts(); len(facts) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Captured facts:")
		for _, f := range facts {
			fmt.Fprintf(&b, "\n- %s: %s", f.Kind, f.Value)
		}
	}

	return b.String()
}

// Outcome is the set of side effects one completion asked for, applied
// before the reply is considered complete.
type Outcome struct {
	Facts    []Fact
	Delegate *DelegateRequest
	Return   bool
	Errors   []error
}

type DelegateRequest struct {
	Target   string
	Question string
}

// ApplyTools validates and applies a completion's tool calls against
// the persona that produced them. Fact captures mutate the session
// synchronously. Delegation and return are reported in the outcome for
// the caller to drive through the coordinator; a call outside the
// persona's declared set or with malformed arguments is collected as
// an error and skipped.
func (s *Session) ApplyTools(p *Persona, calls []ToolCall) Outcome {
	var out Outcome

	for _, call := range calls {
		if !p.Allows(call.Name) {
			out.Errors = append(out.Errors, fmt.Errorf("persona[%s]: tool[%s] is not declared", p.ID, call.Name))
			continue
		}

		switch call.Name {
		case ToolCaptureName:
			name := stringArg(call.Args, "name")
			if name == "" {
				out.Errors = append(out.Errors, fmt.Errorf("tool[%s]: missing name argument", call.Name))
				continue
			}
			s.CaptureName(name)
			out.Facts = append(out.Facts, Fact{Kind: FactCustomerName, Value: name})

		case ToolTakeNote:
			note := stringArg(call.Args, "note")
			if note == "" {
				out.Errors = append(out.Errors, fmt.Errorf("tool[%s]: missing note argument", call.Name))
				continue
			}
			s.AddNote(note)
			out.Facts = append(out.Facts, Fact{Kind: FactNote, Value: note})

		case ToolDelegate:
			target := stringArg(call.Args, "persona")
			if target == "" {
				out.Errors = append(out.Errors, fmt.Errorf("tool[%s]: missing persona argument", call.Name))
				continue
			}
			out.Delegate = &DelegateRequest{
				Target:   target,
				Question: stringArg(call.Args, "question"),
			}

		case ToolReturn:
			out.Return = true

		default:
			out.Errors = append(out.Errors, fmt.Errorf("tool[%s] does not exist", call.Name))
		}
	}

	return out
}

func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}

	str, ok := v.(string)
	if !ok {
		return ""
	}

	return strings.TrimSpace(str)
}

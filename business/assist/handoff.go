package assist

import (
	"errors"
	"fmt"
	"sync"
)

type HandoffState int

const (
	LeadActive HandoffState = iota
	SpecialistActive
)

func (s HandoffState) String() string {
	switch s {
	case LeadActive:
		return "leadActive"
	case SpecialistActive:
		return "specialistActive"
	}
	return "unknown"
}

// Coordinator owns which persona is active. Delegation goes one level
// deep: the lead hands to a specialist, the specialist hands back.
// Nested delegation is rejected.
type Coordinator struct {
	mu          sync.RWMutex
	state       HandoffState
	lead        *Persona
	specialists map[string]*Persona
	active      *Persona
	pending     string
}

func NewCoordinator(lead *Persona, specialists ...*Persona) *Coordinator {
	m := make(map[string]*Persona, len(specialists))
	for _, sp := range specialists {
		m[sp.ID] = sp
	}

	return &Coordinator{
		state:       LeadActive,
		lead:        lead,
		specialists: m,
		active:      lead,
	}
}

func (c *Coordinator) State() HandoffState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Coordinator) Active() *Persona {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

func (c *Coordinator) Lead() *Persona {
	return c.lead
}

// Delegate swaps the active persona to the named specialist. The
// question is carried so the specialist answers it immediately rather
// than waiting for a new utterance. The shared history travels by
// reference; nothing is rebuilt.
func (c *Coordinator) Delegate(target string, question string) (*Persona, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if target == "" {
		return nil, errors.New("delegation has no target persona")
	}

	if c.state == SpecialistActive {
		return nil, fmt.Errorf("already delegated to persona[%s]", c.active.ID)
	}

	sp, exists := c.specialists[target]
	if !exists {
		return nil, fmt.Errorf("persona[%s] does not exist", target)
	}

	c.state = SpecialistActive
	c.active = sp
	c.pending = question

	return sp, nil
}

// Return hands control back to the lead persona.
func (c *Coordinator) Return() (*Persona, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != SpecialistActive {
		return nil, errors.New("no delegation is active")
	}

	c.state = LeadActive
	c.active = c.lead
	c.pending = ""

	return c.lead, nil
}

// PendingQuestion is the question carried by the last delegation,
// cleared when control returns to the lead.
func (c *Coordinator) PendingQuestion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending
}

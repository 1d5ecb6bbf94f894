package assist

import (
	"fmt"
	"strings"
	"sync"
)

// History is the append-only turn log for one call. It is shared by
// reference across persona handoffs and is never rewritten.
type History struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewHistory() *History {
	return &History{
		turns: make([]Turn, 0, 64),
	}
}

func (h *History) Append(t Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, t)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Turns returns a copy of the full turn log.
func (h *History) Turns() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	turns := make([]Turn, len(h.turns))
	copy(turns, h.turns)
	return turns
}

// Window returns a copy of the most recent n turns.
func (h *History) Window(n int) []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.turns) {
		n = len(h.turns)
	}

	turns := make([]Turn, n)
	copy(turns, h.turns[len(h.turns)-n:])
	return turns
}

// Participants returns the distinct caller-side speakers in order of
// first appearance.
func (h *History) Participants() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	participants := make([]string, 0, 4)

	for _, t := range h.turns {
		if t.Role != RoleCaller {
			continue
		}
		if !seen[t.Speaker] {
			seen[t.Speaker] = true
			participants = append(participants, t.Speaker)
		}
	}
	return participants
}

// Render formats the participants and the last n turns as a context
// block for a generation request.
func (h *History) Render(n int) string {
	participants := h.Participants()
	window := h.Window(n)

	if len(window) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString("Participants: ")
	if len(participants) == 0 {
		b.WriteString("unknown")
	} else {
		b.WriteString(strings.Join(participants, ", "))
	}
	b.WriteString("\n\nConversation so far:\n")

	for _, t := range window {
		switch t.Role {
		case RoleAssistant:
			fmt.Fprintf(&b, "%s (assistant): %s\n", t.Speaker, t.Text)
		default:
			fmt.Fprintf(&b, "%s: %s\n", t.Speaker, t.Text)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

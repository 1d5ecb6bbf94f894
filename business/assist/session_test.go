package assist_test

import (
	"strings"
	"testing"

	"github.com/superfeelapi/goCallAssist/business/assist"
)

func newTestSession() (*assist.Session, *assist.Persona, *assist.Persona) {
	lead, specialist := duoPersonas()

	s := assist.NewSession(assist.SessionConfig{
		ID:          "call-1",
		Gate:        assist.NewGate(assist.GateConfig{WakePhrases: []string{"hey alex", "alex"}}),
		Coordinator: assist.NewCoordinator(lead, specialist),
	})
	return s, lead, specialist
}

func TestSessionFactCaptureIdempotent(t *testing.T) {
	s, _, _ := newTestSession()

	s.CaptureName("Diana")
	s.CaptureName("Diana")
	if s.CustomerName() != "Diana" {
		t.Fatalf("unexpected customer name: %q", s.CustomerName())
	}

	// Last write wins on a different value, still a single fact.
	s.CaptureName("Diana Reyes")
	if s.CustomerName() != "Diana Reyes" {
		t.Fatalf("unexpected customer name: %q", s.CustomerName())
	}

	s.AddNote("prefers email follow-up")
	s.AddNote("prefers email follow-up")
	s.AddNote("asking about enterprise plan")

	notes := s.Notes()
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %v", notes)
	}

	facts := s.Facts()
	if len(facts) != 3 {
		t.Fatalf("expected 3 facts, got %v", facts)
	}
	if facts[0].Kind != assist.FactCustomerName || facts[0].Value != "Diana Reyes" {
		t.Fatalf("unexpected first fact: %+v", facts[0])
	}
}

func TestSessionApplyTools(t *testing.T) {
	t.Run("fact capture mutates the session", func(t *testing.T) {
		s, lead, _ := newTestSession()

		out := s.ApplyTools(lead, []assist.ToolCall{
			{Name: assist.ToolCaptureName, Args: map[string]any{"name": "Marcus"}},
			{Name: assist.ToolTakeNote, Args: map[string]any{"note": "wants a demo"}},
		})

		if len(out.Errors) != 0 {
			t.Fatalf("unexpected errors: %v", out.Errors)
		}
		if len(out.Facts) != 2 {
			t.Fatalf("expected 2 facts, got %v", out.Facts)
		}
		if s.CustomerName() != "Marcus" {
			t.Fatalf("unexpected customer name: %q", s.CustomerName())
		}
		if notes := s.Notes(); len(notes) != 1 || notes[0] != "wants a demo" {
			t.Fatalf("unexpected notes: %v", notes)
		}
	})

	t.Run("undeclared tool is a configuration error", func(t *testing.T) {
		s, _, specialist := newTestSession()

		out := s.ApplyTools(specialist, []assist.ToolCall{
			{Name: assist.ToolCaptureName, Args: map[string]any{"name": "Marcus"}},
		})

		if len(out.Errors) != 1 {
			t.Fatalf("expected 1 error, got %v", out.Errors)
		}
		if s.CustomerName() != "" {
			t.Fatal("expected the session to stay unchanged")
		}
	})

	t.Run("malformed arguments are collected, not applied", func(t *testing.T) {
		s, lead, _ := newTestSession()

		out := s.ApplyTools(lead, []assist.ToolCall{
			{Name: assist.ToolCaptureName, Args: map[string]any{"name": "   "}},
			{Name: assist.ToolTakeNote, Args: map[string]any{}},
			{Name: assist.ToolDelegate, Args: map[string]any{"question": "no target"}},
		})

		if len(out.Errors) != 3 {
			t.Fatalf("expected 3 errors, got %v", out.Errors)
		}
		if out.Delegate != nil {
			t.Fatal("expected no delegation request")
		}
		if s.CustomerName() != "" || len(s.Notes()) != 0 {
			t.Fatal("expected the session to stay unchanged")
		}
	})

	t.Run("delegation and return are reported, not applied", func(t *testing.T) {
		s, lead, specialist := newTestSession()

		out := s.ApplyTools(lead, []assist.ToolCall{
			{Name: assist.ToolDelegate, Args: map[string]any{"persona": "technical", "question": "which database?"}},
		})
		if out.Delegate == nil {
			t.Fatal("expected a delegation request")
		}
		if out.Delegate.Target != "technical" || out.Delegate.Question != "which database?" {
			t.Fatalf("unexpected delegation request: %+v", out.Delegate)
		}
		if s.Active() != lead {
			t.Fatal("expected the active persona to stay unchanged until the coordinator fires")
		}

		out = s.ApplyTools(specialist, []assist.ToolCall{
			{Name: assist.ToolReturn},
		})
		if !out.Return {
			t.Fatal("expected a return request")
		}
	})
}

func TestSessionBuildPrompt(t *testing.T) {
	s, lead, _ := newTestSession()

	s.AppendCaller(assist.Utterance{Speaker: "Diana", Text: "hey alex I'm Diana"})
	s.AppendAssistant(lead, "Nice to meet you, Diana.")
	s.CaptureName("Diana")

	p := s.BuildPrompt(lead, "what can you do")

	if p.Instructions != lead.Instructions {
		t.Fatal("expected the persona's instructions to be carried")
	}
	if p.Query != "what can you do" {
		t.Fatalf("unexpected query: %q", p.Query)
	}
	if !strings.Contains(p.Context, "Diana: hey alex I'm Diana") {
		t.Fatalf("expected the history in the context block, got:\n%s", p.Context)
	}
	if !strings.Contains(p.Context, "customer_name: Diana") {
		t.Fatalf("expected captured facts in the context block, got:\n%s", p.Context)
	}
	if len(p.Tools) != len(lead.Tools) {
		t.Fatalf("expected %d tools, got %d", len(lead.Tools), len(p.Tools))
	}
}

func TestSessionModeCycle(t *testing.T) {
	s, _, _ := newTestSession()

	d := s.Evaluate("hey alex what do you think about using Postgres")
	if !d.Forward {
		t.Fatal("expected forward")
	}
	if s.Mode() != assist.ModeActive {
		t.Fatalf("expected mode active, got %s", s.Mode())
	}

	s.MarkResponding()
	if s.Mode() != assist.ModeResponding {
		t.Fatalf("expected mode responding, got %s", s.Mode())
	}

	s.ResetMode()
	if s.Mode() != assist.ModeSilent {
		t.Fatalf("expected mode silent, got %s", s.Mode())
	}
}

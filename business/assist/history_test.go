package assist_test

import (
	"strings"
	"testing"
	"time"

	"github.com/superfeelapi/goCallAssist/business/assist"
)

func TestHistoryAppendOnly(t *testing.T) {
	h := assist.NewHistory()

	if h.Len() != 0 {
		t.Fatalf("expected empty history, got %d turns", h.Len())
	}

	last := 0
	for i, text := range []string{"first", "second", "third"} {
		h.Append(assist.Turn{Role: assist.RoleCaller, Speaker: "caller", Text: text, At: time.Now()})
		if h.Len() <= last {
			t.Fatalf("turn %d: history length did not grow", i)
		}
		last = h.Len()
	}

	turns := h.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Text != "first" || turns[2].Text != "third" {
		t.Fatalf("turn order was not preserved: %+v", turns)
	}
}

func TestHistoryWindow(t *testing.T) {
	h := assist.NewHistory()
	for _, text := range []string{"one", "two", "three", "four"} {
		h.Append(assist.Turn{Role: assist.RoleCaller, Speaker: "caller", Text: text})
	}

	window := h.Window(2)
	if len(window) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(window))
	}
	if window[0].Text != "three" || window[1].Text != "four" {
		t.Fatalf("expected the most recent turns, got %+v", window)
	}

	if got := h.Window(0); len(got) != 4 {
		t.Fatalf("expected the full history for n=0, got %d turns", len(got))
	}
	if got := h.Window(10); len(got) != 4 {
		t.Fatalf("expected the full history for n>len, got %d turns", len(got))
	}
}

func TestHistoryParticipants(t *testing.T) {
	h := assist.NewHistory()
	h.Append(assist.Turn{Role: assist.RoleCaller, Speaker: "Diana", Text: "hello"})
	h.Append(assist.Turn{Role: assist.RoleAssistant, Speaker: "Alex", Text: "hi"})
	h.Append(assist.Turn{Role: assist.RoleCaller, Speaker: "Marcus", Text: "hey"})
	h.Append(assist.Turn{Role: assist.RoleCaller, Speaker: "Diana", Text: "how are you"})

	participants := h.Participants()
	if len(participants) != 2 {
		t.Fatalf("expected 2 participants, got %v", participants)
	}
	if participants[0] != "Diana" || participants[1] != "Marcus" {
		t.Fatalf("expected first-appearance order, got %v", participants)
	}
}

func TestHistoryRender(t *testing.T) {
	h := assist.NewHistory()

	if h.Render(10) != "" {
		t.Fatal("expected empty render for an empty history")
	}

	h.Append(assist.Turn{Role: assist.RoleCaller, Speaker: "Diana", Text: "hey alex what's new"})
	h.Append(assist.Turn{Role: assist.RoleAssistant, Speaker: "Alex", Text: "not much, Diana"})

	out := h.Render(10)
	if !strings.Contains(out, "Participants: Diana") {
		t.Fatalf("expected participants line, got:\n%s", out)
	}
	if !strings.Contains(out, "Diana: hey alex what's new") {
		t.Fatalf("expected caller line, got:\n%s", out)
	}
	if !strings.Contains(out, "Alex (assistant): not much, Diana") {
		t.Fatalf("expected assistant line, got:\n%s", out)
	}
}

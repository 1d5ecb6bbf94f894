package worker_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/superfeelapi/goCallAssist/business/assist"
	"github.com/superfeelapi/goCallAssist/business/worker"
	"github.com/superfeelapi/goCallAssist/foundation/config"
	"github.com/superfeelapi/goCallAssist/foundation/console"
	"github.com/superfeelapi/goCallAssist/foundation/metrics"
	"github.com/superfeelapi/goCallAssist/foundation/replay"
)

// scriptedResponder plays back queued completions and records every prompt
// it was asked to answer.
type scriptedResponder struct {
	mu          sync.Mutex
	completions []assist.Completion
	prompts     []assist.Prompt
	err         error
}

func (r *scriptedResponder) Respond(prompt assist.Prompt) (assist.Completion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts = append(r.prompts, prompt)

	if r.err != nil {
		return assist.Completion{}, r.err
	}

	if len(r.completions) == 0 {
		return assist.Completion{Text: "I have nothing more to say."}, nil
	}

	c := r.completions[0]
	r.completions = r.completions[1:]
	return c, nil
}

func (r *scriptedResponder) recorded() []assist.Prompt {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts := make([]assist.Prompt, len(r.prompts))
	copy(prompts, r.prompts)
	return prompts
}

// =====================================================================================================================

func alexPersona() *assist.Persona {
	return &assist.Persona{
		ID:           "alex",
		Name:         "Alex",
		Kind:         assist.KindLead,
		Voice:        "voice-alex",
		Instructions: "You are Alex, a helpful call assistant.",
		Tools:        []string{assist.ToolCaptureName, assist.ToolTakeNote, assist.ToolDelegate},
	}
}

func samPersona() *assist.Persona {
	return &assist.Persona{
		ID:           "technical",
		Name:         "Sam",
		Kind:         assist.KindSpecialist,
		Voice:        "voice-sam",
		Instructions: "You are Sam, a technical specialist.",
		Tools:        []string{assist.ToolReturn},
		AutoReturn:   true,
	}
}

func wakeSession(lead *assist.Persona, specialists ...*assist.Persona) *assist.Session {
	return assist.NewSession(assist.SessionConfig{
		ID:          "call-1",
		Gate:        assist.NewGate(assist.GateConfig{WakePhrases: []string{"hey alex", "alex"}}),
		Coordinator: assist.NewCoordinator(lead, specialists...),
	})
}

func openSession(lead *assist.Persona, specialists ...*assist.Persona) *assist.Session {
	return assist.NewSession(assist.SessionConfig{
		ID:          "call-1",
		Gate:        assist.NewGate(assist.GateConfig{AlwaysOn: true}),
		Coordinator: assist.NewCoordinator(lead, specialists...),
	})
}

// runConsole drives the worker over a console frontend until the input is
// exhausted and returns everything the assistant said.
func runConsole(t *testing.T, session *assist.Session, responder *scriptedResponder, input string) string {
	t.Helper()

	profile := config.Profile{
		ID:        "test-profile",
		Assistant: "alex",
		Model:     config.ModelSettings{FallbackReply: "Sorry, I did not catch that."},
	}

	in := strings.NewReader(input)
	var out bytes.Buffer

	errCh := worker.Run(worker.Settings{
		Config: worker.Config{
			CallID:    "test-call",
			ProfileID: profile.ID,
			CallerID:  "caller",
		},
		Logger:    zap.NewNop().Sugar(),
		Session:   session,
		Profile:   profile,
		Metrics:   metrics.New(),
		Console:   console.New(in, &out),
		Responder: responder,
	})

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("worker failed: %s", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not shut down after input was exhausted")
	}

	return out.String()
}

// =====================================================================================================================

func TestWorkerWakeFlow(t *testing.T) {
	responder := &scriptedResponder{
		completions: []assist.Completion{
			{Text: "Postgres is a solid choice for this workload."},
		},
	}

	session := wakeSession(alexPersona())
	input := "diana: let's review the deployment checklist first\n" +
		"diana: Hey Alex, what do you think about using Postgres here?\n"

	out := runConsole(t, session, responder, input)

	prompts := responder.recorded()
	if len(prompts) != 1 {
		t.Fatalf("expected 1 responder call, got %d", len(prompts))
	}

	if got, want := prompts[0].Query, "what do you think about using Postgres here?"; got != want {
		t.Errorf("query mismatch\ngot:  %q\nwant: %q", got, want)
	}

	if !strings.Contains(prompts[0].Context, "deployment checklist") {
		t.Errorf("prompt context should carry the earlier chatter, got %q", prompts[0].Context)
	}

	if !strings.Contains(out, "Alex> Postgres is a solid choice") {
		t.Errorf("reply was not spoken, output:\n%s", out)
	}
}

func TestWorkerGateMiss(t *testing.T) {
	responder := &scriptedResponder{}

	session := wakeSession(alexPersona())
	input := "diana: just talking among ourselves here\n" +
		"marcus: nothing for the assistant in this one\n"

	out := runConsole(t, session, responder, input)

	if calls := len(responder.recorded()); calls != 0 {
		t.Fatalf("expected no responder calls, got %d", calls)
	}

	if out != "" {
		t.Errorf("expected silence, got output:\n%s", out)
	}

	if turns := session.History().Turns(); len(turns) != 2 {
		t.Errorf("expected both utterances in the history, got %d turns", len(turns))
	}
}

func TestWorkerEmptyQuery(t *testing.T) {
	responder := &scriptedResponder{}

	session := wakeSession(alexPersona())
	out := runConsole(t, session, responder, "diana: Hey Alex.\n")

	if calls := len(responder.recorded()); calls != 0 {
		t.Fatalf("clarification should not call the responder, got %d calls", calls)
	}

	if !strings.Contains(out, "Alex> Yes? How can I help?") {
		t.Errorf("expected the clarification reply, output:\n%s", out)
	}
}

func TestWorkerFactCapture(t *testing.T) {
	responder := &scriptedResponder{
		completions: []assist.Completion{
			{
				Text: "Nice to meet you, Diana.",
				ToolCalls: []assist.ToolCall{
					{ID: "call_1", Name: assist.ToolCaptureName, Args: map[string]any{"name": "Diana"}},
				},
			},
		},
	}

	session := openSession(alexPersona())
	out := runConsole(t, session, responder, "My name is Diana and I need help with my invoice.\n")

	if got := session.CustomerName(); got != "Diana" {
		t.Fatalf("expected captured name %q, got %q", "Diana", got)
	}

	if !strings.Contains(out, "Alex> Nice to meet you, Diana.") {
		t.Errorf("reply was not spoken, output:\n%s", out)
	}
}

func TestWorkerHandoff(t *testing.T) {
	responder := &scriptedResponder{
		completions: []assist.Completion{
			{
				Text: "Let me pull in Sam for this.",
				ToolCalls: []assist.ToolCall{
					{Name: assist.ToolDelegate, Args: map[string]any{
						"persona":  "technical",
						"question": "Why do webhook retries keep failing?",
					}},
				},
			},
			{Text: "Retries fail when the signature header is stale."},
		},
	}

	session := openSession(alexPersona(), samPersona())
	out := runConsole(t, session, responder, "Can you check why the webhook retries keep failing?\n")

	prompts := responder.recorded()
	if len(prompts) != 2 {
		t.Fatalf("expected lead and specialist responder calls, got %d", len(prompts))
	}

	if got, want := prompts[1].Query, "Why do webhook retries keep failing?"; got != want {
		t.Errorf("specialist query mismatch\ngot:  %q\nwant: %q", got, want)
	}

	if !strings.Contains(prompts[1].Instructions, "Sam") {
		t.Errorf("specialist prompt should carry its own instructions, got %q", prompts[1].Instructions)
	}

	if !strings.Contains(out, "Sam> Retries fail when the signature header is stale.") {
		t.Errorf("specialist reply was not spoken, output:\n%s", out)
	}

	if strings.Contains(out, "Let me pull in Sam") {
		t.Errorf("delegating text should be dropped, output:\n%s", out)
	}

	if got := session.HandoffState(); got != assist.LeadActive {
		t.Errorf("expected control back with the lead, got %s", got)
	}
}

func TestWorkerResponderFailure(t *testing.T) {
	responder := &scriptedResponder{err: errTimeout{}}

	session := openSession(alexPersona())
	out := runConsole(t, session, responder, "Is anyone there?\n")

	if !strings.Contains(out, "Alex> Sorry, I did not catch that.") {
		t.Errorf("expected the fallback reply, output:\n%s", out)
	}
}

type errTimeout struct{}

func (errTimeout) Error() string { return "request timed out" }

// =====================================================================================================================

// TestWorkerReplay runs a scripted conversation through the replay frontend.
// The per-line pacing lets each reply cycle finish before the next wake, so
// both questions get answered.
func TestWorkerReplay(t *testing.T) {
	responder := &scriptedResponder{
		completions: []assist.Completion{
			{Text: "First answer."},
			{Text: "Second answer."},
		},
	}

	source, err := replay.New("testdata/two-questions.txt", 150*time.Millisecond)
	if err != nil {
		t.Fatalf("loading script: %s", err)
	}

	session := wakeSession(alexPersona())

	var out bytes.Buffer

	errCh := worker.Run(worker.Settings{
		Config: worker.Config{
			CallID:    "test-call",
			ProfileID: "test-profile",
			CallerID:  "caller",
		},
		Logger:    zap.NewNop().Sugar(),
		Session:   session,
		Profile:   config.Profile{ID: "test-profile"},
		Metrics:   metrics.New(),
		Console:   console.New(strings.NewReader(""), &out),
		Replay:    source,
		Responder: responder,
	})

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("worker failed: %s", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not shut down after the script ended")
	}

	prompts := responder.recorded()
	if len(prompts) != 2 {
		t.Fatalf("expected 2 responder calls, got %d", len(prompts))
	}

	text := out.String()
	first := strings.Index(text, "First answer.")
	second := strings.Index(text, "Second answer.")
	if first < 0 || second < 0 {
		t.Fatalf("expected both replies spoken, output:\n%s", text)
	}
	if first > second {
		t.Errorf("replies out of order, output:\n%s", text)
	}
}

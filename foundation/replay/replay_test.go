package replay_test

import (
	"testing"
	"time"

	"github.com/superfeelapi/goCallAssist/foundation/replay"
)

func TestNew(t *testing.T) {
	source, err := replay.New("testdata/support-call.txt", 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	lines := source.Lines()
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	if lines[0].Speaker != "diana" {
		t.Fatalf("expected speaker diana, got %s", lines[0].Speaker)
	}
	if lines[1].Speaker != "marcus" {
		t.Fatalf("expected speaker marcus, got %s", lines[1].Speaker)
	}
	if lines[3].Text != "Hey Alex, what do you think about using Postgres here?" {
		t.Fatalf("unexpected text: %s", lines[3].Text)
	}

	if source.Delay() != 10*time.Millisecond {
		t.Fatalf("expected 10ms delay, got %s", source.Delay())
	}
}

func TestNewMissingScript(t *testing.T) {
	if _, err := replay.New("testdata/missing.txt", 0); err == nil {
		t.Fatal("expected error")
	}
}

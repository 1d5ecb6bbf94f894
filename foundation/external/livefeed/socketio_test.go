package livefeed_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/superfeelapi/goCallAssist/foundation/external/livefeed"
)

func TestSetupConnectionAndSendData(t *testing.T) {
	var bodies []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("sid") == "" {
				io.WriteString(w, `0{"sid":"abc123","upgrades":[],"pingInterval":25000,"pingTimeout":20000}`)
				return
			}
			io.WriteString(w, `2`)

		case http.MethodPost:
			b, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(b))
			io.WriteString(w, `ok`)
		}
	}))
	defer server.Close()

	feed := livefeed.New(server.URL+"/socket.io/?EIO=4&transport=polling", "feed-token")
	if err := feed.SetupConnection(); err != nil {
		t.Fatal(err)
	}
	if feed.GetSessionID() != "abc123" {
		t.Fatalf("expected sid abc123, got %s", feed.GetSessionID())
	}

	err := feed.SendData(livefeed.TranscriptEvent, livefeed.TranscriptData{
		CallID:     "call-1",
		DataID:     "data-1",
		Speaker:    "diana",
		Transcript: "hey alex what time is it",
		IsFinal:    true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(bodies) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(bodies))
	}
	if !strings.HasPrefix(bodies[0], `40{"token":"feed-token"}`) {
		t.Fatalf("unexpected upgrade payload: %s", bodies[0])
	}
	if !strings.HasPrefix(bodies[1], `42["sendTranscriptApi"`) {
		t.Fatalf("unexpected event payload: %s", bodies[1])
	}
	if !strings.Contains(bodies[1], `"speaker":"diana"`) {
		t.Fatalf("expected speaker in payload: %s", bodies[1])
	}
}

func TestSendDataServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	feed := livefeed.New(server.URL, "feed-token")
	if err := feed.SendData(livefeed.KeepAliveEvent, nil); err == nil {
		t.Fatal("expected error")
	}
}

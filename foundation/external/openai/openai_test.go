package openai_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/superfeelapi/goCallAssist/foundation/external/openai"
)

func TestChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatRequest
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("expected model gpt-4o-mini, got %s", req.Model)
		}

		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"choices": [{
				"index": 0,
				"message": {
					"role": "assistant",
					"content": "Postgres is a solid default.",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "take_note", "arguments": "{\"note\":\"considering postgres\"}"}
					}]
				},
				"finish_reason": "stop"
			}]
		}`)
	}))
	defer server.Close()

	client := openai.New(server.URL, "test-key", "gpt-4o-mini")

	resp, err := client.ChatCompletion(openai.ChatRequest{
		Messages: []openai.Message{
			{Role: "system", Content: "You are Alex."},
			{Role: "user", Content: "what do you think about using Postgres"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	msg := resp.Choices[0].Message
	if msg.Content != "Postgres is a solid default." {
		t.Fatalf("unexpected content: %s", msg.Content)
	}
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].Function.Name != "take_note" {
		t.Fatalf("unexpected tool calls: %+v", msg.ToolCalls)
	}
}

func TestChatCompletionNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": "chatcmpl-2", "choices": []}`)
	}))
	defer server.Close()

	client := openai.New(server.URL, "test-key", "gpt-4o-mini")
	if _, err := client.ChatCompletion(openai.ChatRequest{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestChatCompletionServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := openai.New(server.URL, "test-key", "gpt-4o-mini")
	if _, err := client.ChatCompletion(openai.ChatRequest{}); err == nil {
		t.Fatal("expected error")
	}
}

package worker

import (
	"encoding/json"
	"strings"

	"github.com/superfeelapi/goCallAssist/business/assist"
	"github.com/superfeelapi/goCallAssist/foundation/external/openai"
)

// OpenAIResponder generates replies through an OpenAI-compatible chat
// completion endpoint.
type OpenAIResponder struct {
	client      *openai.Client
	temperature float64
}

func NewOpenAIResponder(client *openai.Client, temperature float64) *OpenAIResponder {
	return &OpenAIResponder{
		client:      client,
		temperature: temperature,
	}
}

func (r *OpenAIResponder) Respond(prompt assist.Prompt) (assist.Completion, error) {
	messages := []openai.Message{
		{Role: "system", Content: prompt.Instructions},
	}
	if prompt.Context != "" {
		messages = append(messages, openai.Message{Role: "system", Content: prompt.Context})
	}
	messages = append(messages, openai.Message{Role: "user", Content: prompt.Query})

	request := openai.ChatRequest{
		Messages:    messages,
		Temperature: r.temperature,
		Tools:       chatTools(prompt.Tools),
	}
	if len(request.Tools) > 0 {
		request.ToolChoice = "auto"
	}

	resp, err := r.client.ChatCompletion(request)
	if err != nil {
		return assist.Completion{}, err
	}

	message := resp.Choices[0].Message

	completion := assist.Completion{
		Text: strings.TrimSpace(message.Content),
	}

	for _, tc := range message.ToolCalls {
		// A garbled argument payload still surfaces the call so the
		// session can report the missing parameter.
		var args map[string]any
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				args = nil
			}
		}

		completion.ToolCalls = append(completion.ToolCalls, assist.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}

	return completion, nil
}

// chatTools renders the persona's tools in the function-calling wire shape.
func chatTools(tools []assist.Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}

	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		properties := make(map[string]any, len(t.Params))
		required := make([]string, 0)

		for _, p := range t.Params {
			properties[p.Name] = map[string]any{
				"type":        "string",
				"description": p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}

		out = append(out, openai.Tool{
			Type: "function",
			Function: openai.Function{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}

	return out
}

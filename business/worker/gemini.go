package worker

import (
	"strings"

	"google.golang.org/genai"

	"github.com/superfeelapi/goCallAssist/business/assist"
	"github.com/superfeelapi/goCallAssist/foundation/external/gemini"
)

// GeminiResponder generates replies through the Google Gen AI SDK.
type GeminiResponder struct {
	client      *gemini.Client
	temperature float64
}

func NewGeminiResponder(client *gemini.Client, temperature float64) *GeminiResponder {
	return &GeminiResponder{
		client:      client,
		temperature: temperature,
	}
}

func (r *GeminiResponder) Respond(prompt assist.Prompt) (assist.Completion, error) {
	result, err := r.client.Generate(gemini.Request{
		Instructions: prompt.Instructions,
		Context:      prompt.Context,
		Query:        prompt.Query,
		Temperature:  r.temperature,
		Tools:        functionDeclarations(prompt.Tools),
	})
	if err != nil {
		return assist.Completion{}, err
	}

	completion := assist.Completion{
		Text: strings.TrimSpace(result.Text),
	}

	for _, call := range result.Calls {
		completion.ToolCalls = append(completion.ToolCalls, assist.ToolCall{
			ID:   call.ID,
			Name: call.Name,
			Args: call.Args,
		})
	}

	return completion, nil
}

func functionDeclarations(tools []assist.Tool) []*genai.FunctionDeclaration {
	if len(tools) == 0 {
		return nil
	}

	out := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		properties := make(map[string]*genai.Schema, len(t.Params))
		required := make([]string, 0)

		for _, p := range t.Params {
			properties[p.Name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}

		out = append(out, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	}

	return out
}

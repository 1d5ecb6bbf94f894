// Package gemini wraps the Google Gen AI SDK behind the small surface the
// assist pipeline needs: one prompt in, text plus tool calls out.
package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const apiTimeout = 30 * time.Second

type Client struct {
	client *genai.Client
	model  string
}

func New(apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

type Request struct {
	Instructions string
	Context      string
	Query        string
	Temperature  float64
	Tools        []*genai.FunctionDeclaration
}

type Result struct {
	Text  string
	Calls []*genai.FunctionCall
}

func (c *Client) Generate(r Request) (Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	config := genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(r.Temperature)),
	}
	if r.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(r.Instructions, genai.RoleUser)
	}
	if len(r.Tools) > 0 {
		config.Tools = []*genai.Tool{
			{FunctionDeclarations: r.Tools},
		}
	}

	var contents []*genai.Content
	if r.Context != "" {
		contents = append(contents, genai.NewContentFromText(r.Context, genai.RoleUser))
	}
	contents = append(contents, genai.NewContentFromText(r.Query, genai.RoleUser))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &config)
	if err != nil {
		return Result{}, fmt.Errorf("unable to generate content: %w", err)
	}

	return Result{
		Text:  resp.Text(),
		Calls: resp.FunctionCalls(),
	}, nil
}

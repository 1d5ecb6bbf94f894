// Package openai is a thin client for OpenAI-compatible chat completion
// endpoints. Anything serving the /chat/completions wire format works.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

const (
	apiTimeout = 30
)

type Client struct {
	Endpoint string
	ApiKey   string
	Model    string
}

func New(endpoint, apiKey, model string) *Client {
	return &Client{
		Endpoint: endpoint,
		ApiKey:   apiKey,
		Model:    model,
	}
}

func (c *Client) ChatCompletion(request ChatRequest) (ChatResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout*time.Second)
	defer cancel()

	if request.Model == "" {
		request.Model = c.Model
	}

	b, err := json.Marshal(request)
	if err != nil {
		return ChatResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return ChatResponse{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)

	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return ChatResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusInternalServerError {
		return ChatResponse{}, errors.New("internal server error 500")
	}

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatResponse{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return ChatResponse{}, errors.New(string(bytes))
	}

	var r ChatResponse
	if err := json.Unmarshal(bytes, &r); err != nil {
		return ChatResponse{}, err
	}

	if len(r.Choices) == 0 {
		return ChatResponse{}, errors.New("chat completion returned no choices")
	}

	return r, nil
}

// Package cartesia synthesizes speech through the Cartesia bytes endpoint.
// Output is raw PCM ready for the telephony playback path.
package cartesia

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
	apiTimeout = 10

	apiVersion = "2024-06-10"
)

type Client struct {
	Endpoint   string
	ApiKey     string
	Model      string
	Language   string
	SampleRate int
}

func New(endpoint, apiKey, model, language string, sampleRate int) *Client {
	return &Client{
		Endpoint:   endpoint,
		ApiKey:     apiKey,
		Model:      model,
		Language:   language,
		SampleRate: sampleRate,
	}
}

type request struct {
	ModelID      string       `json:"model_id"`
	Transcript   string       `json:"transcript"`
	Voice        voice        `json:"voice"`
	Language     string       `json:"language"`
	OutputFormat outputFormat `json:"output_format"`
}

type voice struct {
	Mode string `json:"mode"`
	ID   string `json:"id"`
}

type outputFormat struct {
	Container  string `json:"container"`
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

// Synthesize renders text in the given voice and returns pcm_s16le samples
// at the client's sample rate.
func (c *Client) Synthesize(text, voiceID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout*time.Second)
	defer cancel()

	b, err := json.Marshal(request{
		ModelID:    c.Model,
		Transcript: text,
		Voice: voice{
			Mode: "id",
			ID:   voiceID,
		},
		Language: c.Language,
		OutputFormat: outputFormat{
			Container:  "raw",
			Encoding:   "pcm_s16le",
			SampleRate: c.SampleRate,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/tts/bytes", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.ApiKey)
	req.Header.Set("Cartesia-Version", apiVersion)

	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusInternalServerError {
		return nil, errors.New("internal server error 500")
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(string(audio))
	}

	return audio, nil
}

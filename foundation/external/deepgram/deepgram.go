// Package deepgram streams call audio to the Deepgram live endpoint and
// reads transcription results back off the same socket.
package deepgram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

const defaultModel = "nova-2"

type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// New dials the live socket. Audio is expected as linear16 PCM at the given
// sample rate, one channel.
func New(host, apiKey, languageCode string, sampleRate int) (*Client, error) {
	u := url.URL{
		Scheme: "wss",
		Host:   host,
		Path:   "/v1/listen",
	}

	q := u.Query()
	q.Set("model", defaultModel)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(sampleRate))
	q.Set("channels", "1")
	q.Set("language", languageCode)
	q.Set("punctuate", "true")
	q.Set("interim_results", "true")
	u.RawQuery = q.Encode()

	header := http.Header{"Authorization": []string{"Token " + apiKey}}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("deepgram connection failed: %w", err)
	}

	return &Client{conn: conn}, nil
}

// NewFromConn wraps an already dialed socket. Tests use this with a local
// websocket server.
func NewFromConn(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Send(audio []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, audio)
}

func (c *Client) KeepAlive() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"KeepAlive"}`))
}

func (c *Client) ReadResult() (Result, error) {
	_, message, err := c.conn.ReadMessage()
	if err != nil {
		return Result{}, err
	}

	var r Result
	if err := json.Unmarshal(message, &r); err != nil {
		return Result{}, err
	}

	return r, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`))
	return c.conn.Close()
}

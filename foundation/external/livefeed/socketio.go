package livefeed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Event string

const (
	apiTimeout = 5

	CallEvent       Event = "sendCallData"
	TranscriptEvent Event = "sendTranscriptApi"
	AssistEvent     Event = "sendAssistApi"
	KeepAliveEvent  Event = "keepAlive"
)

// Polling speaks the socket.io long-polling transport to the live feed
// dashboard. The sid is assigned by the handshake and rides along on every
// request after it.
type Polling struct {
	sid         string
	apiEndpoint string
	apiToken    string
}

func New(apiEndpoint, apiToken string) *Polling {
	return &Polling{
		apiEndpoint: apiEndpoint,
		apiToken:    apiToken,
	}
}

func (p *Polling) GetSessionID() string {
	return p.sid
}

func (p *Polling) SetupConnection() error {
	if err := p.establishHandshake(); err != nil {
		return err
	}

	if err := p.upgradeConnection(); err != nil {
		return err
	}

	if err := p.keepConnection(); err != nil {
		return err
	}

	return nil
}

func (p *Polling) SendData(e Event, d any) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}

	_, err = p.do(http.MethodPost, strings.NewReader(formatData(b, e)))
	return err
}

func (p *Polling) establishHandshake() error {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addQueryParams(p.apiEndpoint, ""), nil)
	if err != nil {
		return err
	}

	bytes, err := send(req)
	if err != nil {
		return err
	}

	var r map[string]any

	if err := json.Unmarshal(bytes[1:], &r); err != nil {
		return err
	}

	sid, ok := r["sid"].(string)
	if !ok {
		return errors.New("handshake response has no sid")
	}
	p.sid = sid

	return nil
}

func (p *Polling) upgradeConnection() error {
	auth, err := json.Marshal(AuthorizationData{Token: p.apiToken})
	if err != nil {
		return err
	}

	_, err = p.do(http.MethodPost, strings.NewReader(`40`+string(auth)))
	return err
}

func (p *Polling) keepConnection() error {
	_, err := p.do(http.MethodGet, nil)
	return err
}

func (p *Polling) do(method string, payload io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, addQueryParams(p.apiEndpoint, p.sid), payload)
	if err != nil {
		return nil, err
	}

	return send(req)
}

func send(req *http.Request) ([]byte, error) {
	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusInternalServerError {
		return nil, errors.New("internal server error 500")
	}

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(string(bytes))
	}

	return bytes, nil
}

// =========================================================================

func getTimestamp() string {
	now := time.Now()
	return strconv.FormatInt(now.Unix(), 10)
}

func addQueryParams(endpoint string, sid string) string {
	u, _ := url.Parse(endpoint)
	q, _ := url.ParseQuery(u.RawQuery)
	q.Add("t", getTimestamp())
	if sid != "" {
		q.Add("sid", sid)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func formatData(b []byte, e Event) string {
	return `42["` + string(e) + `", ` + string(b) + `]`
}

package worker

import (
	"time"

	"github.com/superfeelapi/goEagi"
	"go.uber.org/zap"

	"github.com/superfeelapi/goCallAssist/business/assist"
	"github.com/superfeelapi/goCallAssist/foundation/config"
	"github.com/superfeelapi/goCallAssist/foundation/console"
	"github.com/superfeelapi/goCallAssist/foundation/external/deepgram"
	"github.com/superfeelapi/goCallAssist/foundation/external/livefeed"
	"github.com/superfeelapi/goCallAssist/foundation/kafka"
	"github.com/superfeelapi/goCallAssist/foundation/metrics"
	"github.com/superfeelapi/goCallAssist/foundation/redis"
	"github.com/superfeelapi/goCallAssist/foundation/replay"
)

type Settings struct {
	Config
	Logger  *zap.SugaredLogger
	Session *assist.Session
	Profile config.Profile
	Metrics *metrics.Metrics

	// Call frontends. Eagi carries live telephony audio; Console and
	// Replay stand in for it offline. Exactly one drives the pipeline.
	Eagi     *goEagi.Eagi
	Google   *goEagi.GoogleService
	Deepgram *deepgram.Client
	Console  *console.Console
	Replay   *replay.Source

	Responder   Responder
	Synthesizer Synthesizer

	// Downstream sinks, each optional.
	Redis      *redis.Redis
	LiveFeed   *livefeed.Polling
	Kafka      *kafka.Kafka
	Translator Translator
}

type Config struct {
	CallID                 string
	ProfileID              string
	CallerID               string
	Extension              string
	AsteriskAudioDirectory string
}

// Responder turns one prompt into one completion. Implementations wrap a
// model provider and own their request timeouts.
type Responder interface {
	Respond(prompt assist.Prompt) (assist.Completion, error)
}

// Synthesizer renders reply text into raw PCM in the given voice.
type Synthesizer interface {
	Synthesize(text, voice string) ([]byte, error)
}

// Translator translates downstream transcript copies. The live call path
// never waits on it.
type Translator interface {
	Translate(text string) (string, error)
}

// =====================================================================================================================

const (
	transcriptTopic = "transcript"
	eventTopic      = "assist"
)

// TranscriptMessage is one transcription hop on its way to the sinks.
type TranscriptMessage struct {
	Speaker string
	Text    string
	IsFinal bool
	Wake    bool
}

const (
	eventReply     = "reply"
	eventHandoff   = "handoff"
	eventHandback  = "handback"
	eventFact      = "fact"
	eventToolError = "tool_error"
	eventMuted     = "muted"
	eventUnmuted   = "unmuted"
)

// AssistEvent is one assistant-side action on its way to the sinks.
type AssistEvent struct {
	Kind      string
	Persona   string
	Text      string
	Target    string
	FactKind  string
	FactValue string
}

// ControlData is a call-control command consumed off the redis control
// channel.
type ControlData struct {
	CallID string `json:"call_id"`
	Action string `json:"action"`
}

const (
	actionMute   = "mute"
	actionUnmute = "unmute"
	actionEnd    = "end"
)

// query is one gated caller question in flight to the responder.
type query struct {
	speaker string
	text    string
	wake    string
	at      time.Time
}

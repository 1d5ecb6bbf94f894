// Package worker runs the per-call assist pipeline: audio in, transcripts
// through the listening gate, replies out through synthesis, with every hop
// mirrored to the downstream sinks.
package worker

import (
	"strings"
	"sync"
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
	"github.com/superfeelapi/goCallAssist/foundation/pubsub"
	"github.com/superfeelapi/goCallAssist/foundation/redis"
	"github.com/superfeelapi/goCallAssist/foundation/replay"
	"github.com/superfeelapi/goCallAssist/foundation/state"
)

type Worker struct {
	config  Config
	profile config.Profile
	state   *state.State
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics

	session *assist.Session
	broker  *pubsub.Broker

	eagi     *goEagi.Eagi
	google   *goEagi.GoogleService
	deepgram *deepgram.Client
	console  *console.Console
	replay   *replay.Source

	responder   Responder
	synthesizer Synthesizer

	redis      *redis.Redis
	livefeed   *livefeed.Polling
	kafka      *kafka.Kafka
	translator Translator

	wg       sync.WaitGroup
	shutOnce sync.Once
	shut     chan struct{}
	error    chan error

	// pending counts utterances that have entered the pipeline and not yet
	// finished their reply cycle. Offline frontends wait on it before
	// shutting down so the last reply is spoken.
	pending sync.WaitGroup

	toSpeechCh  chan []byte
	utteranceCh chan assist.Utterance
	queryCh     chan query
	replyCh     chan assist.Reply
}

func Run(s Settings) <-chan error {
	w := &Worker{
		config:      s.Config,
		profile:     s.Profile,
		state:       state.NewState(),
		logger:      s.Logger,
		metrics:     s.Metrics,
		session:     s.Session,
		broker:      pubsub.NewBroker(),
		eagi:        s.Eagi,
		google:      s.Google,
		deepgram:    s.Deepgram,
		console:     s.Console,
		replay:      s.Replay,
		responder:   s.Responder,
		synthesizer: s.Synthesizer,
		redis:       s.Redis,
		livefeed:    s.LiveFeed,
		kafka:       s.Kafka,
		translator:  s.Translator,
		shut:        make(chan struct{}),
		error:       make(chan error, 1),
		toSpeechCh:  make(chan []byte, 1000),
		utteranceCh: make(chan assist.Utterance, 10),
		queryCh:     make(chan query, 10),
		replyCh:     make(chan assist.Reply),
	}

	operations := []func(){
		w.gateOperation,
		w.respondOperation,
		w.synthesizeOperation,
		w.publishOperation,
	}

	if s.Eagi != nil {
		operations = append(operations, w.audioStreamOperation)
	}
	if s.Google != nil {
		operations = append(operations, w.googleSpeechOperation)
	}
	if s.Deepgram != nil {
		operations = append(operations, w.deepgramSpeechOperation)
	}
	if s.Replay != nil {
		operations = append(operations, w.replayOperation)
	} else if s.Console != nil {
		operations = append(operations, w.consoleOperation)
	}
	if s.Redis != nil {
		operations = append(operations, w.controlOperation)
	}

	g := len(operations)
	w.wg.Add(g)

	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return w.error
}

// Shutdown stops every operation and reports err to the Run caller. It is
// safe to call from inside an operation and more than once; the first call
// wins.
func (w *Worker) Shutdown(err error) {
	w.shutOnce.Do(func() {
		w.logger.Infow("worker: shutdown: started")

		if err != nil {
			w.logger.Errorw("worker: shutdown", "ERROR", err)
		}

		w.logger.Infow("worker: shutdown: terminate goroutines")
		close(w.shut)

		go func() {
			defer w.logger.Infow("worker: shutdown: completed")
			w.wg.Wait()
			w.error <- err
		}()
	})
}

// =====================================================================================================================

// acceptUtterance books a finalized transcript into the pipeline.
func (w *Worker) acceptUtterance(speaker, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	w.pending.Add(1)
	w.utteranceCh <- assist.Utterance{
		Speaker: speaker,
		Text:    text,
		At:      time.Now(),
	}
}

func (w *Worker) publishTranscript(m TranscriptMessage) {
	if err := w.broker.Publish(transcriptTopic, m); err != nil {
		w.logger.Errorw("worker: publish transcript", "ERROR", err)
	}
}

func (w *Worker) publishEvent(e AssistEvent) {
	if err := w.broker.Publish(eventTopic, e); err != nil {
		w.logger.Errorw("worker: publish event", "ERROR", err)
	}
}

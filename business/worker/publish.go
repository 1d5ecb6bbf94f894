package worker

import (
	"time"

	"github.com/google/uuid"

	"github.com/superfeelapi/goCallAssist/foundation/external/livefeed"
	"github.com/superfeelapi/goCallAssist/foundation/pubsub"
	"github.com/superfeelapi/goCallAssist/foundation/state"
)

const (
	interimTranscriptID = "interimTranscript"
	fullTranscriptID    = "fullTranscript"
)

// StreamRecord is the kafka envelope. One topic carries both transcript
// and assist traffic, keyed by call id.
type StreamRecord struct {
	Kind       string                   `json:"kind"`
	Transcript *livefeed.TranscriptData `json:"transcript,omitempty"`
	Assist     *livefeed.AssistData     `json:"assist,omitempty"`
}

// publishOperation mirrors transcripts and assist events to the configured
// sinks. Sinks are best effort: one that fails is switched off and the call
// keeps going.
func (w *Worker) publishOperation() {
	w.logger.Infow("worker: publishOperation: G started")
	defer w.logger.Infow("worker: publishOperation: G completed")

	transcriptSub := pubsub.NewSubscriber(10)
	eventSub := pubsub.NewSubscriber(10)
	w.broker.Subscribe(transcriptTopic, transcriptSub)
	w.broker.Subscribe(eventTopic, eventSub)

	if w.livefeed != nil {
		err := w.livefeed.SendData(livefeed.CallEvent, livefeed.CallData{
			CallID:    w.config.CallID,
			ProfileID: w.config.ProfileID,
			Assistant: w.profile.Assistant,
			Extension: w.config.Extension,
		})
		if err != nil {
			w.state.Set(state.LiveFeed, false)
			w.logger.Errorw("worker: publishOperation: call data", "ERROR", err)
		}
	} else {
		w.state.Set(state.LiveFeed, false)
	}

	if w.redis == nil {
		w.state.Set(state.Redis, false)
	}
	if w.kafka == nil {
		w.state.Set(state.Kafka, false)
	}
	if w.translator == nil || !w.profile.IsTranslationEnabled() {
		w.state.Set(state.Translation, false)
	}

	// Keeping the connection alive
	keepAlive := time.NewTicker(10 * time.Second)
	defer keepAlive.Stop()

	// DataID generation
	dataID := createDataID()

	w.logger.Infow("worker: publishOperation: G listening")
	for {
		select {
		case <-keepAlive.C:
			if !w.state.Get(state.LiveFeed) {
				continue
			}
			if err := w.livefeed.SendData(livefeed.KeepAliveEvent, nil); err != nil {
				w.state.Set(state.LiveFeed, false)
				w.logger.Errorw("worker: publishOperation: keep alive", "ERROR", err)
			}

		case msg := <-transcriptSub.GetChannel():
			m, ok := msg.(TranscriptMessage)
			if !ok {
				continue
			}
			w.sendTranscript(m, dataID)

		case msg := <-eventSub.GetChannel():
			e, ok := msg.(AssistEvent)
			if !ok {
				continue
			}
			w.sendEvent(e)

		case <-w.shut:
			w.logger.Infow("worker: publishOperation: received shut signal")
			return
		}
	}
}

// =====================================================================================================================

func (w *Worker) sendTranscript(m TranscriptMessage, dataID func(event string) string) {
	var translated string
	if w.state.Get(state.Translation) {
		var err error
		translated, err = w.translator.Translate(m.Text)
		if err != nil {
			w.state.Set(state.Translation, false)
			w.logger.Errorw("worker: publishOperation: translation", "ERROR", err)
		}
	}

	var id string
	if m.IsFinal {
		id = dataID(fullTranscriptID)
	} else {
		id = dataID(interimTranscriptID)
	}

	data := livefeed.TranscriptData{
		CallID:               w.config.CallID,
		DataID:               id,
		Speaker:              m.Speaker,
		Transcript:           m.Text,
		TranslationEnabled:   w.profile.IsTranslationEnabled(),
		TranslatedTranscript: translated,
		WakeTriggered:        m.Wake,
		IsFinal:              m.IsFinal,
	}

	if w.state.Get(state.LiveFeed) {
		if err := w.livefeed.SendData(livefeed.TranscriptEvent, data); err != nil {
			w.state.Set(state.LiveFeed, false)
			w.metrics.PublishErrors.WithLabelValues("livefeed").Inc()
			w.logger.Errorw("worker: publishOperation: livefeed", "ERROR", err)
		}
	}

	// Interim hops stop at the live feed.
	if !m.IsFinal {
		return
	}

	if w.state.Get(state.Redis) {
		if err := w.redis.Produce(data); err != nil {
			w.state.Set(state.Redis, false)
			w.metrics.PublishErrors.WithLabelValues("redis").Inc()
			w.logger.Errorw("worker: publishOperation: redis", "ERROR", err)
		}
	}

	if w.state.Get(state.Kafka) {
		record := StreamRecord{Kind: "transcript", Transcript: &data}
		if err := w.kafka.Produce(w.config.CallID, record); err != nil {
			w.state.Set(state.Kafka, false)
			w.metrics.PublishErrors.WithLabelValues("kafka").Inc()
			w.logger.Errorw("worker: publishOperation: kafka", "ERROR", err)
		}
	}
}

func (w *Worker) sendEvent(e AssistEvent) {
	data := livefeed.AssistData{
		CallID:    w.config.CallID,
		DataID:    uuid.New().String(),
		Kind:      e.Kind,
		Persona:   e.Persona,
		Text:      e.Text,
		Target:    e.Target,
		FactKind:  e.FactKind,
		FactValue: e.FactValue,
	}

	if w.state.Get(state.LiveFeed) {
		if err := w.livefeed.SendData(livefeed.AssistEvent, data); err != nil {
			w.state.Set(state.LiveFeed, false)
			w.metrics.PublishErrors.WithLabelValues("livefeed").Inc()
			w.logger.Errorw("worker: publishOperation: livefeed", "ERROR", err)
		}
	}

	if w.state.Get(state.Kafka) {
		record := StreamRecord{Kind: "assist", Assist: &data}
		if err := w.kafka.Produce(w.config.CallID, record); err != nil {
			w.state.Set(state.Kafka, false)
			w.metrics.PublishErrors.WithLabelValues("kafka").Inc()
			w.logger.Errorw("worker: publishOperation: kafka", "ERROR", err)
		}
	}
}

// =====================================================================================================================

// createDataID hands out ids so that every interim hop of one utterance and
// its final share an id, and a fresh id starts once the final goes out.
func createDataID() func(event string) string {
	ids := NewDataIDs()

	return func(event string) string {
		switch event {
		case interimTranscriptID:
			return ids.Peek(event)

		case fullTranscriptID:
			id := ids.Dequeue(event)
			_ = ids.Dequeue(interimTranscriptID)
			ids.CreateNewID()
			return id

		default:
			return ids.Dequeue(event)
		}
	}
}

type DataIDs struct {
	elements map[string][]string
}

func NewDataIDs() *DataIDs {
	generateId := uuid.New().String()
	d := DataIDs{
		elements: map[string][]string{
			interimTranscriptID: {generateId},
			fullTranscriptID:    {generateId},
		},
	}
	return &d
}

func (d *DataIDs) CreateNewID() {
	generateId := uuid.New().String()
	for i := range d.elements {
		d.elements[i] = append(d.elements[i], generateId)
	}
}

func (d *DataIDs) Dequeue(event string) string {
	getElement := d.elements[event][0]
	d.elements[event] = d.elements[event][1:]
	return getElement
}

func (d *DataIDs) Peek(event string) string {
	return d.elements[event][0]
}

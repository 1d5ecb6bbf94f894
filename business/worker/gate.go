package worker

import (
	"github.com/superfeelapi/goCallAssist/business/assist"
)

const defaultClarification = "Yes? How can I help?"

func (w *Worker) gateOperation() {
	w.logger.Infow("worker: gateOperation: G started")
	defer w.logger.Infow("worker: gateOperation: G completed")

	w.logger.Infow("worker: gateOperation: G listening")
	for {
		select {
		case u := <-w.utteranceCh:
			w.handleUtterance(u)

		case <-w.shut:
			w.logger.Infow("worker: gateOperation: received shut signal")
			return
		}
	}
}

// =====================================================================================================================

// handleUtterance books one finalized utterance: into the history always,
// through the gate, and onward to the responder when the gate opens.
func (w *Worker) handleUtterance(u assist.Utterance) {
	w.session.AppendCaller(u)
	w.metrics.Utterances.Inc()

	decision := w.session.Evaluate(u.Text)

	w.publishTranscript(TranscriptMessage{
		Speaker: u.Speaker,
		Text:    u.Text,
		IsFinal: true,
		Wake:    decision.Forward,
	})

	switch {
	case decision.EmptyQuery:
		w.logger.Infow("worker: gateOperation: wake phrase without query", "speaker", u.Speaker, "wakePhrase", decision.WakePhrase)
		w.metrics.EmptyQueries.Inc()
		w.clarify()

	case decision.Forward:
		w.logger.Infow("worker: gateOperation: query accepted", "speaker", u.Speaker, "query", decision.Query)
		w.metrics.GateMatches.Inc()
		w.queryCh <- query{
			speaker: u.Speaker,
			text:    decision.Query,
			wake:    decision.WakePhrase,
			at:      u.At,
		}

	default:
		w.logger.Debugw("worker: gateOperation: passed in silence", "speaker", u.Speaker)
		w.metrics.GateMisses.Inc()
		w.pending.Done()
	}
}

// clarify answers a bare wake phrase without burning a model call.
func (w *Worker) clarify() {
	w.session.MarkResponding()

	persona := w.session.Active()

	text := w.profile.Gate.ClarificationReply
	if text == "" {
		text = defaultClarification
	}

	w.session.AppendAssistant(persona, text)

	w.replyCh <- assist.Reply{
		PersonaID: persona.ID,
		Persona:   persona.Name,
		Voice:     persona.Voice,
		Text:      text,
	}
}

package worker

import (
	"strings"
	"time"

	"github.com/superfeelapi/goCallAssist/business/assist"
)

func (w *Worker) respondOperation() {
	w.logger.Infow("worker: respondOperation: G started")
	defer w.logger.Infow("worker: respondOperation: G completed")

	w.logger.Infow("worker: respondOperation: G listening")
	for {
		select {
		case q := <-w.queryCh:
			w.handleQuery(q)

		case <-w.shut:
			w.logger.Infow("worker: respondOperation: received shut signal")
			return
		}
	}
}

// =====================================================================================================================

// handleQuery turns one accepted query into exactly one reply. The reply
// comes from the active persona, from the specialist it delegated to, or
// from the configured fallback when the model is unreachable.
func (w *Worker) handleQuery(q query) {
	started := q.at
	if started.IsZero() {
		started = time.Now()
	}

	w.session.MarkResponding()

	persona := w.session.Active()
	w.logger.Infow("worker: respondOperation: handling query", "persona", persona.ID, "speaker", q.speaker, "wakePhrase", q.wake)

	completion, err := w.responder.Respond(w.session.BuildPrompt(persona, q.text))
	if err != nil {
		w.logger.Errorw("worker: respondOperation: responder", "persona", persona.ID, "ERROR", err)
		w.metrics.ReplyFailures.Inc()
		w.sendReply(persona, w.profile.Model.FallbackReply)
		return
	}

	outcome := w.session.ApplyTools(persona, completion.ToolCalls)
	w.bookOutcome(persona, outcome)

	// A successful delegation swaps the reply: the specialist answers the
	// carried question and the delegating text is dropped.
	if outcome.Delegate != nil {
		question := outcome.Delegate.Question
		if question == "" {
			question = q.text
		}

		specialist, err := w.session.Delegate(outcome.Delegate.Target, question)
		if err != nil {
			w.logger.Errorw("worker: respondOperation: delegate", "persona", persona.ID, "target", outcome.Delegate.Target, "ERROR", err)
			w.metrics.ToolErrors.Inc()
		} else {
			w.metrics.Handoffs.Inc()
			w.publishEvent(AssistEvent{
				Kind:    eventHandoff,
				Persona: persona.ID,
				Target:  specialist.ID,
				Text:    question,
			})

			w.answerAsSpecialist(specialist, question, started)
			return
		}
	}

	if outcome.Return {
		w.handBack(persona)
	}

	w.metrics.ReplyLatency.Observe(time.Since(started).Seconds())
	w.sendReply(persona, completion.Text)
}

// answerAsSpecialist has the specialist answer the carried question on the
// shared history, then hands control back when the persona auto-returns or
// asked to.
func (w *Worker) answerAsSpecialist(specialist *assist.Persona, question string, started time.Time) {
	completion, err := w.responder.Respond(w.session.BuildPrompt(specialist, question))
	if err != nil {
		w.logger.Errorw("worker: respondOperation: responder", "persona", specialist.ID, "ERROR", err)
		w.metrics.ReplyFailures.Inc()
		completion = assist.Completion{Text: w.profile.Model.FallbackReply}
	}

	outcome := w.session.ApplyTools(specialist, completion.ToolCalls)
	w.bookOutcome(specialist, outcome)

	// One level deep only. A specialist asking to delegate is rejected by
	// the coordinator and the reply goes out regardless.
	if outcome.Delegate != nil {
		if _, err := w.session.Delegate(outcome.Delegate.Target, outcome.Delegate.Question); err != nil {
			w.logger.Errorw("worker: respondOperation: delegate", "persona", specialist.ID, "target", outcome.Delegate.Target, "ERROR", err)
			w.metrics.ToolErrors.Inc()
		}
	}

	returned := false
	if outcome.Return {
		returned = w.handBack(specialist)
	}
	if specialist.AutoReturn && !returned {
		w.handBack(specialist)
	}

	w.metrics.ReplyLatency.Observe(time.Since(started).Seconds())
	w.sendReply(specialist, completion.Text)
}

func (w *Worker) handBack(p *assist.Persona) bool {
	lead, err := w.session.Return()
	if err != nil {
		w.logger.Errorw("worker: respondOperation: return", "persona", p.ID, "ERROR", err)
		w.metrics.ToolErrors.Inc()
		return false
	}

	w.metrics.Handbacks.Inc()
	w.publishEvent(AssistEvent{
		Kind:    eventHandback,
		Persona: p.ID,
		Target:  lead.ID,
	})

	return true
}

func (w *Worker) bookOutcome(p *assist.Persona, outcome assist.Outcome) {
	for _, err := range outcome.Errors {
		w.logger.Errorw("worker: respondOperation: tool", "persona", p.ID, "ERROR", err)
		w.metrics.ToolErrors.Inc()
		w.publishEvent(AssistEvent{
			Kind:    eventToolError,
			Persona: p.ID,
			Text:    err.Error(),
		})
	}

	for _, f := range outcome.Facts {
		w.logger.Infow("worker: respondOperation: fact captured", "kind", f.Kind, "value", f.Value)
		w.metrics.Facts.WithLabelValues(f.Kind).Inc()
		w.publishEvent(AssistEvent{
			Kind:      eventFact,
			Persona:   p.ID,
			FactKind:  f.Kind,
			FactValue: f.Value,
		})
	}
}

// sendReply records the turn and hands it to synthesis. An empty text
// still flows through so the gate resets and the cycle closes.
func (w *Worker) sendReply(p *assist.Persona, text string) {
	text = strings.TrimSpace(text)
	if text != "" {
		w.session.AppendAssistant(p, text)
		w.metrics.Replies.WithLabelValues(p.ID).Inc()
	}

	w.replyCh <- assist.Reply{
		PersonaID: p.ID,
		Persona:   p.Name,
		Voice:     p.Voice,
		Text:      text,
	}
}

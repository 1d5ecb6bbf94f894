package worker

import (
	"strings"
	"time"

	"github.com/superfeelapi/goEagi"

	"github.com/superfeelapi/goCallAssist/business/assist"
)

func (w *Worker) synthesizeOperation() {
	w.logger.Infow("worker: synthesizeOperation: G started")
	defer w.logger.Infow("worker: synthesizeOperation: G completed")

	w.logger.Infow("worker: synthesizeOperation: G listening")
	for {
		select {
		case r := <-w.replyCh:
			w.speak(r)

		case <-w.shut:
			w.logger.Infow("worker: synthesizeOperation: received shut signal")
			return
		}
	}
}

// =====================================================================================================================

// speak voices one reply and closes the cycle: whatever happens the gate
// goes back to listening and the pending token is released.
func (w *Worker) speak(r assist.Reply) {
	defer w.pending.Done()
	defer w.session.ResetMode()

	if r.Text == "" {
		return
	}

	switch {
	case w.console != nil:
		w.console.Say(r.Persona, r.Text)

	case w.synthesizer != nil && w.eagi != nil:
		audio, err := w.synthesizer.Synthesize(r.Text, r.Voice)
		if err != nil {
			w.logger.Errorw("worker: synthesizeOperation: synthesize", "persona", r.PersonaID, "ERROR", err)
			return
		}

		audioFilepath, err := goEagi.GenerateAudio(audio, w.config.AsteriskAudioDirectory, createAudioFile(w.config.CallID))
		if err != nil {
			w.logger.Errorw("worker: synthesizeOperation: generateAudio", "ERROR", err)
			return
		}

		_, err = w.eagi.StreamFile(strings.TrimSuffix(audioFilepath, ".wav"), "")
		if err != nil {
			w.logger.Errorw("worker: synthesizeOperation: streamFile", "ERROR", err)
			return
		}
	}

	w.publishEvent(AssistEvent{
		Kind:    eventReply,
		Persona: r.PersonaID,
		Text:    r.Text,
	})

	w.logger.Infow("worker: synthesizeOperation: spoke", "persona", r.Persona, "text", r.Text)
}

func createAudioFile(callID string) string {
	const layout = "2006-01-02-15:04:05"
	t := time.Now()

	return callID + "-" + t.Format(layout) + ".wav"
}

package worker

import (
	"encoding/json"
)

// controlOperation consumes call-control commands off the redis control
// channel: muting and unmuting the gate, and ending the call.
func (w *Worker) controlOperation() {
	w.logger.Infow("worker: controlOperation: G started")
	defer w.logger.Infow("worker: controlOperation: G completed")
	defer w.redis.Client.Close()

	msgCh := w.redis.ConsumeControlChannel()

	w.logger.Infow("worker: controlOperation: G listening")
	for {
		select {
		case message := <-msgCh:
			var data ControlData
			if err := json.Unmarshal([]byte(message.Payload), &data); err != nil {
				w.logger.Errorw("worker: controlOperation: unmarshal", "ERROR", err)
				continue
			}
			if data.CallID != "" && data.CallID != w.config.CallID {
				continue
			}

			switch data.Action {
			case actionMute:
				w.session.SetMuted(true)
				w.publishEvent(AssistEvent{Kind: eventMuted, Persona: w.session.Active().ID})
				w.logger.Infow("worker: controlOperation: muted")

			case actionUnmute:
				w.session.SetMuted(false)
				w.publishEvent(AssistEvent{Kind: eventUnmuted, Persona: w.session.Active().ID})
				w.logger.Infow("worker: controlOperation: unmuted")

			case actionEnd:
				w.logger.Infow("worker: controlOperation: end requested")
				w.Shutdown(nil)
				return

			default:
				w.logger.Errorw("worker: controlOperation: unknown action", "action", data.Action)
			}

		case <-w.shut:
			w.logger.Infow("worker: controlOperation: received shut signal")
			return
		}
	}
}

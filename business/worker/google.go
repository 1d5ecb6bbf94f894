package worker

import (
	"context"
)

func (w *Worker) googleSpeechOperation() {
	w.logger.Infow("worker: googleSpeechOperation: G started")
	defer w.logger.Infow("worker: googleSpeechOperation: G completed")

	errCh := w.google.StartStreaming(context.Background(), w.toSpeechCh)
	googleCh := w.google.SpeechToTextResponse(context.Background())

	w.logger.Infow("worker: googleSpeechOperation: G listening")
	for {
		select {
		case google := <-googleCh:
			if google.Error != nil {
				w.Shutdown(google.Error)
				return
			}

			if google.Info != "" {
				w.logger.Infow("worker: googleSpeechOperation:", "callID", w.config.CallID, "info", google.Info)
				continue
			}

			if google.Result == nil || len(google.Result.Alternatives) == 0 {
				continue
			}

			// Results are handled in order. The gate and the history
			// depend on finals arriving the way they were spoken.
			transcription := google.Result.Alternatives[0].Transcript
			w.logger.Infow("worker: googleSpeechOperation:", "transcription", transcription, "isFinal", google.Result.IsFinal)

			switch google.Result.IsFinal {
			case false:
				w.publishTranscript(TranscriptMessage{
					Speaker: w.config.CallerID,
					Text:    transcription,
				})

			case true:
				w.acceptUtterance(w.config.CallerID, transcription)
			}

		case err := <-errCh:
			w.Shutdown(err)
			return

		case <-w.shut:
			w.logger.Infow("worker: googleSpeechOperation: received shut signal")
			return
		}
	}
}

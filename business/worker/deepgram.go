package worker

import (
	"fmt"
	"time"

	"github.com/superfeelapi/goCallAssist/foundation/external/deepgram"
)

const deepgramKeepAlive = 8 * time.Second

func (w *Worker) deepgramSpeechOperation() {
	w.logger.Infow("worker: deepgramSpeechOperation: G started")
	defer w.logger.Infow("worker: deepgramSpeechOperation: G completed")

	resultCh := make(chan deepgram.Result)

	go func() {
		w.logger.Infow("worker: deepgramSpeechOperation: G started to listen for RESULTS")
		defer w.logger.Infow("worker: deepgramSpeechOperation: G completed to listen for RESULTS")

		for {
			result, err := w.deepgram.ReadResult()
			if err != nil {
				w.Shutdown(fmt.Errorf("worker: deepgramSpeechOperation: G:results: %w", err))
				return
			}

			select {
			case resultCh <- result:
			case <-w.shut:
				return
			}
		}
	}()

	keepAlive := time.NewTicker(deepgramKeepAlive)
	defer keepAlive.Stop()

	w.logger.Infow("worker: deepgramSpeechOperation: G listening")
	for {
		select {
		case audio := <-w.toSpeechCh:
			if err := w.deepgram.Send(audio); err != nil {
				w.Shutdown(fmt.Errorf("worker: deepgramSpeechOperation: send: %w", err))
				return
			}

		case result := <-resultCh:
			if result.Type != "Results" {
				continue
			}

			transcription := result.Transcript()
			if transcription == "" {
				continue
			}

			w.logger.Infow("worker: deepgramSpeechOperation:", "transcription", transcription, "isFinal", result.IsFinal)

			switch result.IsFinal {
			case false:
				w.publishTranscript(TranscriptMessage{
					Speaker: w.config.CallerID,
					Text:    transcription,
				})

			case true:
				w.acceptUtterance(w.config.CallerID, transcription)
			}

		case <-keepAlive.C:
			if err := w.deepgram.KeepAlive(); err != nil {
				w.Shutdown(fmt.Errorf("worker: deepgramSpeechOperation: keepalive: %w", err))
				return
			}

		case <-w.shut:
			w.logger.Infow("worker: deepgramSpeechOperation: received shut signal")
			w.deepgram.Close()
			return
		}
	}
}

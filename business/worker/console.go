package worker

import (
	"errors"
	"io"
	"strings"
)

func (w *Worker) consoleOperation() {
	w.logger.Infow("worker: consoleOperation: G started")
	defer w.logger.Infow("worker: consoleOperation: G completed")

	w.logger.Infow("worker: consoleOperation: G listening")
	for {
		line, err := w.console.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				w.logger.Infow("worker: consoleOperation: input exhausted")
				w.pending.Wait()
				w.Shutdown(nil)
				return
			}
			w.Shutdown(err)
			return
		}

		select {
		case <-w.shut:
			w.logger.Infow("worker: consoleOperation: received shut signal")
			return
		default:
		}

		speaker, text := splitSpeakerLine(line, w.config.CallerID)
		if text == "" {
			continue
		}

		w.acceptUtterance(speaker, text)
	}
}

// =====================================================================================================================

// splitSpeakerLine peels an optional "speaker: text" prefix off a console
// line. Lines without one belong to the default caller.
func splitSpeakerLine(line, fallback string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback, ""
	}

	if i := strings.Index(line, ":"); i > 0 {
		speaker := strings.ToLower(strings.TrimSpace(line[:i]))
		text := strings.TrimSpace(line[i+1:])
		if speaker != "" && !strings.Contains(speaker, " ") {
			return speaker, text
		}
	}

	return fallback, line
}

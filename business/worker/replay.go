package worker

import (
	"time"
)

func (w *Worker) replayOperation() {
	w.logger.Infow("worker: replayOperation: G started")
	defer w.logger.Infow("worker: replayOperation: G completed")

	w.logger.Infow("worker: replayOperation: G listening")
	for _, line := range w.replay.Lines() {
		select {
		case <-w.shut:
			w.logger.Infow("worker: replayOperation: received shut signal")
			return

		case <-time.After(w.replay.Delay()):
		}

		w.acceptUtterance(line.Speaker, line.Text)
	}

	w.logger.Infow("worker: replayOperation: script exhausted")
	w.pending.Wait()
	w.Shutdown(nil)
}

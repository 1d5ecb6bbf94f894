package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a file-backed logger for one call. Each profile gets its
// own directory and each call its own file, so a box serving many
// concurrent calls keeps their logs apart.
func New(logDirectory string, profileID string, callID string) (*zap.SugaredLogger, error) {
	profileDirectory := logDirectory + profileID
	logPath := profileDirectory + "/" + callID + ".log"

	if _, err := os.Stat(profileDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(profileDirectory, os.ModePerm); err != nil {
			return nil, err
		}
	}

	_, err := os.OpenFile(logPath, os.O_CREATE|os.O_RDWR, os.ModePerm)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{logPath}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = false

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}

// NewConsole builds a stderr logger for the console and replay modes,
// keeping stdout free for the assistant's replies.
func NewConsole() (*zap.SugaredLogger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}

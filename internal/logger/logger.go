package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured logger. Pipeline code goes through
// the helpers below so entries carry consistent domain fields (stage,
// filename) instead of ad-hoc keys.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

// WithStage tags an entry with the pipeline stage it belongs to.
func WithStage(stage string) *logrus.Entry {
	return Logger.WithField("stage", stage)
}

// WithUpload tags an entry with the upload being processed.
func WithUpload(filename string) *logrus.Entry {
	return Logger.WithField("filename", filename)
}

// WithError creates an entry with an error field.
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

// WithField creates an entry with a single field.
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithFields creates an entry with the given fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields aliases logrus.Fields so callers need not import logrus directly.
type Fields = logrus.Fields

var globalLogger *logrus.Logger

func init() {
	globalLogger = newLogger()
}

func newLogger() *logrus.Logger {
	logger := logrus.New()

	levelStr := os.Getenv("GCORBIT_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	if lvl, err := logrus.ParseLevel(strings.ToLower(levelStr)); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	return logger
}

// Logger returns the process-wide logger.
func Logger() *logrus.Logger {
	return globalLogger
}

// WithComponent tags entries with the originating component.
func WithComponent(component string) *logrus.Entry {
	return globalLogger.WithField("component", component)
}

// SetOutput redirects log output, e.g. to RotatingFile.
func SetOutput(w io.Writer) {
	globalLogger.SetOutput(w)
}

// RotatingFile returns a size-rotated log file writer.
func RotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
}

// internal/logging/logging.go
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. Lines carry timestamp, level
// and any component field the caller attaches; output goes to stdout and,
// when a path is given, to the log file as well.
func NewLogger(level, file string) *logrus.Logger {

	var log = logrus.New()

	// JSON format for structured logging.
	log.SetFormatter(&logrus.JSONFormatter{})

	out := io.Writer(os.Stdout)
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Warnf("Could not open log file %s: %v. Logging to stdout only.", file, err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	log.SetOutput(out)

	switch strings.ToLower(level) {
	case "trace":
		log.SetLevel(logrus.TraceLevel)
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

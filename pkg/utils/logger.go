package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// Logger for debug messages
var (
	logger  = newLogger()
	logFile *os.File
)

func newLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	l.SetLevel(log.InfoLevel)
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})
	return l
}

// Log writes a debug message to the log file if verbose mode is enabled
func Log(text string, args ...interface{}) {
	logger.Debugf(text, args...)
}

// WithFields returns a structured entry on the shared logger.
func WithFields(fields log.Fields) *log.Entry {
	return logger.WithFields(fields)
}

// Logger exposes the shared logger for components that need an io.Writer or
// a *logrus.Logger, such as the HTTP server.
func Logger() *log.Logger {
	return logger
}

// InitLogger initializes the logging system
func InitLogger(verbose bool) {
	if !verbose {
		return
	}

	// Create log filename with current date
	now := time.Now()
	logFileName := filepath.Join(os.TempDir(), fmt.Sprintf("tasklist_%s.log", now.Format("2006-01-02")))

	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating log file: %v\n", err)
		return
	}

	logFile = f
	logger.SetOutput(f)
	logger.SetLevel(log.DebugLevel)

	Log("Verbose logging enabled")
}

// SetOutput redirects the logger, used by tests and the serve command.
func SetOutput(w io.Writer, level log.Level) {
	logger.SetOutput(w)
	logger.SetLevel(level)
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
		logger.SetOutput(io.Discard)
	}
}

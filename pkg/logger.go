package pkg

import (
	"io"
	"log"
	"sync"
)

// Logger writes leveled log lines. Debug lines are only emitted in verbose mode.
type Logger struct {
	debugLog   *log.Logger
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	verbose    bool
	mu         sync.Mutex
}

// NewLogger creates a Logger writing info and debug lines to out and
// warnings and errors to errOut.
func NewLogger(out, errOut io.Writer, verbose bool) *Logger {
	return &Logger{
		debugLog:   log.New(out, "DEBUG   ", log.Ltime),
		infoLog:    log.New(out, "INFO    ", log.Ltime),
		warningLog: log.New(errOut, "WARNING ", log.Ltime),
		errorLog:   log.New(errOut, "ERROR   ", log.Ltime),
		verbose:    verbose,
	}
}

// DiscardLogger returns a Logger that drops everything. Used by tests.
func DiscardLogger() *Logger {
	return NewLogger(io.Discard, io.Discard, false)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.verbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugLog.Printf(format, v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Printf(format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Printf(format, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Printf(format, v...)
}

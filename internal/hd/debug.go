package hd

import (
	"io"
	"log"
	"sync"
)

// LogWriters routes the three analysis log streams. A nil writer silences
// its stream.
//
//   - Ops: one line per run and per failed cell, plus the auto-calibrated
//     head offset.
//   - Diag: stage summaries such as artifact filter kept counts, the
//     offset-0 marker convention, calibration resultant length and tuning
//     spike assignment.
//   - Trace: one line per rejected tracking sample and per direction bin.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

type streams struct {
	ops, diag, trace *log.Logger
}

var (
	mu      sync.RWMutex
	loggers streams
)

// SetLogWriters replaces all three streams at once. Streams start silenced.
func SetLogWriters(w LogWriters) {
	mu.Lock()
	defer mu.Unlock()
	loggers = streams{
		ops:   newLogger(w.Ops),
		diag:  newLogger(w.Diag),
		trace: newLogger(w.Trace),
	}
}

func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, "[headdir] ", log.LstdFlags|log.Lmicroseconds)
}

func current() streams {
	mu.RLock()
	defer mu.RUnlock()
	return loggers
}

func printf(l *log.Logger, format string, args []interface{}) {
	if l != nil {
		l.Printf(format, args...)
	}
}

// Opsf logs run progress, per-cell failures and the calibrated offset.
func Opsf(format string, args ...interface{}) { printf(current().ops, format, args) }

// Diagf logs one summary line per analysis stage.
func Diagf(format string, args ...interface{}) { printf(current().diag, format, args) }

// Tracef logs per-sample artifact rejections and per-bin tuning counts.
func Tracef(format string, args ...interface{}) { printf(current().trace, format, args) }

// TraceEnabled reports whether the trace stream has a writer, so the
// artifact filter can skip formatting one line per rejected sample.
func TraceEnabled() bool { return current().trace != nil }

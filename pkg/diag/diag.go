// Package diag carries progress, warning and error messages out of the mesh
// kernels. Derivations never fail; anomalies they meet are reported here.
//
// All sinks in this package are safe for concurrent use.
package diag

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level is the severity of a diagnostic
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a level name to a Level
func ParseLevel(name string) (Level, error) {
	switch name {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelWarn, fmt.Errorf("unknown verbosity %q", name)
}

// Kind classifies a kernel anomaly
type Kind string

const (
	KindNone             Kind = ""
	KindMalformed        Kind = "malformed-topology"
	KindDegenerate       Kind = "degenerate-geometry"
	KindInsufficientData Kind = "insufficient-data"
)

// Entry is one diagnostic message
type Entry struct {
	Level   Level
	Kind    Kind
	Message string
}

func (e Entry) String() string {
	if e.Kind == KindNone {
		return fmt.Sprintf("[%s] %s", e.Level, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Level, e.Kind, e.Message)
}

// Sink accepts diagnostics
type Sink interface {
	Emit(e Entry)
}

// Logf formats a message and sends it to s
func Logf(s Sink, level Level, kind Kind, format string, args ...any) {
	if s == nil {
		return
	}
	s.Emit(Entry{Level: level, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Debugf reports progress
func Debugf(s Sink, format string, args ...any) {
	Logf(s, LevelDebug, KindNone, format, args...)
}

// Warnf reports a recoverable anomaly of the given kind
func Warnf(s Sink, kind Kind, format string, args ...any) {
	Logf(s, LevelWarn, kind, format, args...)
}

type discard struct{}

func (discard) Emit(Entry) {}

// Discard drops every entry
var Discard Sink = discard{}

// Logger writes entries at or above its verbosity through a stdlib logger
type Logger struct {
	mu        sync.Mutex
	out       *log.Logger
	verbosity Level
}

// NewLogger creates a logger writing to w
func NewLogger(w io.Writer, verbosity Level) *Logger {
	return &Logger{
		out:       log.New(w, "gotrimesh: ", 0),
		verbosity: verbosity,
	}
}

// Default returns a stderr logger showing warnings and errors
func Default() *Logger {
	return NewLogger(os.Stderr, LevelWarn)
}

// SetVerbosity changes the threshold
func (l *Logger) SetVerbosity(v Level) {
	l.mu.Lock()
	l.verbosity = v
	l.mu.Unlock()
}

// Verbosity returns the current threshold
func (l *Logger) Verbosity() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbosity
}

// Emit implements Sink
func (l *Logger) Emit(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.Level > l.verbosity {
		return
	}
	l.out.Println(e.String())
}

// Recorder keeps every entry in memory
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Emit implements Sink
func (r *Recorder) Emit(e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

// Entries returns a copy of the recorded entries
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns the number of entries of the given kind
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all entries
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

// Tee fans entries out to several sinks
type Tee []Sink

// Emit implements Sink
func (t Tee) Emit(e Entry) {
	for _, s := range t {
		if s != nil {
			s.Emit(e)
		}
	}
}

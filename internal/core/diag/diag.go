// Package diag holds the diagnostic sink collaborator. The scanning tool is
// constructed with exactly one sink and keeps it for its whole lifetime;
// tests substitute a capturing sink.
package diag

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

type Diagnostic struct {
	Severity Severity
	Module   string
	Message  string
}

func (d Diagnostic) String() string {
	if d.Module != "" {
		return fmt.Sprintf("%s: %s: %s", d.Severity, d.Module, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Sink consumes diagnostics emitted during scanning.
type Sink interface {
	Handle(d Diagnostic)
	// Text returns all diagnostics handled so far, one per line.
	Text() string
	Reset()
}

// PrintingSink logs each diagnostic through slog and accumulates the text so
// a failing scan can surface everything that was emitted along the way.
type PrintingSink struct {
	mu     sync.Mutex
	logger *slog.Logger
	lines  []string
}

func NewPrintingSink(logger *slog.Logger) *PrintingSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrintingSink{logger: logger}
}

func (s *PrintingSink) Handle(d Diagnostic) {
	s.mu.Lock()
	s.lines = append(s.lines, d.String())
	s.mu.Unlock()

	switch d.Severity {
	case SeverityError:
		s.logger.Error(d.Message, "module", d.Module)
	case SeverityWarning:
		s.logger.Warn(d.Message, "module", d.Module)
	default:
		s.logger.Debug(d.Message, "module", d.Module)
	}
}

func (s *PrintingSink) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.lines, "\n")
}

func (s *PrintingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// CapturingSink records diagnostics without printing anything.
type CapturingSink struct {
	mu          sync.Mutex
	Diagnostics []Diagnostic
}

func NewCapturingSink() *CapturingSink {
	return &CapturingSink{}
}

func (s *CapturingSink) Handle(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Diagnostics = append(s.Diagnostics, d)
}

func (s *CapturingSink) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, 0, len(s.Diagnostics))
	for _, d := range s.Diagnostics {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

func (s *CapturingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Diagnostics = nil
}

// Errorf is shorthand for handling an error-severity diagnostic.
func Errorf(s Sink, mod, format string, args ...interface{}) {
	s.Handle(Diagnostic{Severity: SeverityError, Module: mod, Message: fmt.Sprintf(format, args...)})
}

// Notef is shorthand for handling a note-severity diagnostic.
func Notef(s Sink, mod, format string, args ...interface{}) {
	s.Handle(Diagnostic{Severity: SeverityNote, Module: mod, Message: fmt.Sprintf(format, args...)})
}

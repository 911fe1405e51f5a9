// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/lull/internal/core/ports"
)

// messager is an error that reports its own message without the chain, as zerr.Error does.
type messager interface {
	Message() string
}

// metadater is an error that carries key-value metadata, as zerr.Error does.
type metadater interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// SetOutput updates the output destination, keeping the current mode.
// A nil writer selects os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(newHandler(w, enable))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with its cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	entries := collectErrorEntries(err)
	if l.jsonMode {
		causes := make([]string, 0, len(entries))
		for _, e := range entries[1:] {
			causes = append(causes, e.String())
		}
		l.logger.Error(entries[0].String(), "causes", causes)
		return
	}

	l.logger.Error(formatErrorEntries(entries))
}

// errorEntry is one level of an error chain.
type errorEntry struct {
	msg  string
	meta map[string]any
}

// String renders the message followed by its sorted metadata.
func (e errorEntry) String() string {
	if len(e.meta) == 0 {
		return e.msg
	}
	keys := slices.Sorted(maps.Keys(e.meta))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.meta[k]))
	}
	return e.msg + " (" + strings.Join(parts, ", ") + ")"
}

// collectErrorEntries flattens err into one entry per level. Joined errors contribute
// their members in order. Levels without a message pass their metadata to the next level.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var carry map[string]any

	var walk func(error)
	walk = func(current error) {
		for current != nil {
			if joined, ok := current.(interface{ Unwrap() []error }); ok {
				for _, member := range joined.Unwrap() {
					walk(member)
				}
				return
			}

			m, ok := current.(messager)
			if !ok {
				entries = append(entries, errorEntry{msg: current.Error(), meta: carry})
				carry = nil
				return
			}

			meta := carry
			if md, ok := current.(metadater); ok && len(md.Metadata()) > 0 {
				meta = mergeMeta(meta, md.Metadata())
			}
			if m.Message() == "" {
				carry = meta
			} else {
				entries = append(entries, errorEntry{msg: m.Message(), meta: meta})
				carry = nil
			}
			current = errors.Unwrap(current)
		}
	}
	walk(err)

	if len(entries) == 0 {
		entries = append(entries, errorEntry{msg: err.Error(), meta: carry})
	}
	return entries
}

func mergeMeta(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}

// formatErrorEntries renders the entries as "Error: ..." followed by an indented cause list.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.String(), "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
	}

	return strings.Join(lines, "\n")
}

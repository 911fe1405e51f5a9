// Package shell runs the configured settlement hook command.
package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Scorer = (*HookScorer)(nil)

// DefaultHookTimeout bounds a single hook run.
const DefaultHookTimeout = 5 * time.Minute

// HookScorer scores a settlement by running an external command.
// The change set is written to the command's stdin as JSON and summarised in LULL_* variables.
type HookScorer struct {
	command []string
	dir     string
	timeout time.Duration
	logger  ports.Logger
}

// NewHookScorer creates a scorer for command, run in dir.
func NewHookScorer(command []string, dir string, logger ports.Logger) *HookScorer {
	return &HookScorer{
		command: command,
		dir:     dir,
		timeout: DefaultHookTimeout,
		logger:  logger,
	}
}

// WithDir sets the working directory, normally the watched root.
func (h *HookScorer) WithDir(dir string) *HookScorer {
	h.dir = dir
	return h
}

// WithTimeout sets the per-run timeout.
func (h *HookScorer) WithTimeout(timeout time.Duration) *HookScorer {
	h.timeout = timeout
	return h
}

// payload is the JSON document written to the hook's stdin.
type payload struct {
	Session     string            `json:"session"`
	Paths       []string          `json:"paths"`
	Renames     map[string]string `json:"renames"`
	Fingerprint string            `json:"fingerprint"`
	SettledAt   time.Time         `json:"settled_at"`
}

// Score runs the hook once for changes. An empty command does nothing.
func (h *HookScorer) Score(ctx context.Context, changes domain.ChangeSet) error {
	if len(h.command) == 0 {
		return nil
	}

	input, err := json.Marshal(payload{
		Session:     changes.SessionID,
		Paths:       nonNil(changes.Paths),
		Renames:     changes.RenameOrigins,
		Fingerprint: strconv.FormatUint(changes.Fingerprint, 16),
		SettledAt:   changes.SettledAt,
	})
	if err != nil {
		return errors.Join(domain.ErrHookFailed, err)
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, h.command[0], h.command[1:]...) //nolint:gosec // user provided command
	cmd.Dir = h.dir
	cmd.Stdin = bytes.NewReader(input)
	cmd.Env = append(os.Environ(),
		"LULL_SESSION="+changes.SessionID,
		"LULL_ROOT="+h.dir,
		"LULL_CHANGED="+strconv.Itoa(len(changes.Paths)),
		"LULL_RENAMED="+strconv.Itoa(len(changes.RenameOrigins)),
	)

	stdout := &logWriter{logger: h.logger, level: "info"}
	stderr := &logWriter{logger: h.logger, level: "error"}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	stdout.Flush()
	stderr.Flush()

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return errors.Join(domain.ErrHookFailed, zerr.With(zerr.With(runErr, "exit_code", exitCode), "command", h.command[0]))
	}
	return nil
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}

// logWriter forwards complete lines of command output to the logger.
type logWriter struct {
	mu     sync.Mutex
	logger ports.Logger
	level  string
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	if w.logger == nil {
		return
	}
	if w.level == "info" {
		w.logger.Info(line)
	} else {
		w.logger.Error(zerr.New(line))
	}
}

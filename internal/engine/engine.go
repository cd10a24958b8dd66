package engine

import (
	"errors"
	"strings"
)

// ErrUnavailable indicates a command was issued before an engine was set.
var ErrUnavailable = errors.New("engine: no engine handle established")

// Engine receives rendered command lines.
type Engine interface {
	Command(line string) error
}

// Closer is implemented by engines holding external resources.
type Closer interface {
	Close() error
}

// Historian is implemented by engines that remember what they were sent.
type Historian interface {
	History() []string
}

// Close closes e if it holds resources.
func Close(e Engine) error {
	if c, ok := e.(Closer); ok {
		return c.Close()
	}
	return nil
}

// Recorder is a dry-run engine: it keeps every line and executes nothing.
type Recorder struct {
	lines []string
}

func NewRecorder() *Recorder {
	return &Recorder{lines: make([]string, 0)}
}

func (r *Recorder) Command(line string) error {
	r.lines = append(r.lines, line)
	return nil
}

func (r *Recorder) History() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Mode selects how commands reach the wrapped engine.
type Mode string

const (
	// NoPipe forwards every command unchanged.
	NoPipe Mode = "nopipe"
	// RunZero rewrites run commands to zero steps.
	RunZero Mode = "runzero"
	// RunOne rewrites run commands to a single step.
	RunOne Mode = "runone"
	// DryRun records commands without forwarding them.
	DryRun Mode = "dryrun"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case NoPipe, RunZero, RunOne, DryRun:
		return m, nil
	case "":
		return NoPipe, nil
	default:
		return "", errors.New("engine: unknown mode " + s + " (want nopipe, runzero, runone or dryrun)")
	}
}

// Moded applies a Mode in front of another engine and keeps a history of
// the lines as the caller issued them.
type Moded struct {
	inner   Engine
	mode    Mode
	history []string
}

func WithMode(inner Engine, mode Mode) *Moded {
	return &Moded{inner: inner, mode: mode, history: make([]string, 0)}
}

func (m *Moded) Mode() Mode { return m.mode }

func (m *Moded) Command(line string) error {
	m.history = append(m.history, line)
	switch m.mode {
	case DryRun:
		return nil
	case RunZero:
		return m.inner.Command(rewriteRun(line, "0"))
	case RunOne:
		return m.inner.Command(rewriteRun(line, "1"))
	default:
		return m.inner.Command(line)
	}
}

func (m *Moded) History() []string {
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Moded) Close() error { return Close(m.inner) }

// rewriteRun replaces the step count of a run command.
func rewriteRun(line, steps string) string {
	f := strings.Fields(line)
	if len(f) < 2 || f[0] != "run" {
		return line
	}
	f[1] = steps
	return strings.Join(f, " ")
}

// Package exec runs external tools (nvidia-smi, systemctl, privilege
// helpers) behind an interface that tests replace with MockExecutor.
package exec

import (
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of one command.
type Result struct {
	Command   string
	Args      []string
	Stdout    []byte
	Stderr    []byte
	ExitCode  int
	Duration  time.Duration
	Error     error // set when the command could not run or was cut short
	StartTime time.Time
	EndTime   time.Time
}

// Success reports exit code 0 and no execution error.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// StdoutString returns stdout as a string.
func (r *Result) StdoutString() string { return string(r.Stdout) }

// StderrString returns stderr as a string.
func (r *Result) StderrString() string { return string(r.Stderr) }

// StdoutLines returns trimmed stdout split into lines; empty output
// yields an empty slice.
func (r *Result) StdoutLines() []string {
	trimmed := strings.TrimSpace(r.StdoutString())
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

// CombinedString returns stdout followed by stderr.
func (r *Result) CombinedString() string {
	return string(r.Stdout) + string(r.Stderr)
}

// Err converts a failed result into an error that carries the command
// line and its stderr, or returns nil on success.
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	line := strings.TrimSpace(r.Command + " " + strings.Join(r.Args, " "))
	if r.Error != nil {
		return fmt.Errorf("%s: %w", line, r.Error)
	}
	if msg := strings.TrimSpace(r.StderrString()); msg != "" {
		return fmt.Errorf("%s: exit status %d: %s", line, r.ExitCode, msg)
	}
	return fmt.Errorf("%s: exit status %d", line, r.ExitCode)
}

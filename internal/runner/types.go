// Package runner executes the external collaborators of the setup workflow
// (package manager, ORM generator, git) as opaque commands that report an
// exit status. Commands block until they finish; there is no timeout, and
// context cancellation is the only way to interrupt one.
package runner

import (
	"fmt"
	"strings"
	"time"
)

// Command represents a command to be executed.
type Command struct {
	// Binary is the executable to run (e.g., "npm", "git").
	Binary string `json:"binary"`

	// Args are the command-line arguments.
	Args []string `json:"args"`

	// Dir is the directory to execute in. Empty means the current directory.
	Dir string `json:"dir,omitempty"`

	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string `json:"env,omitempty"`
}

// String returns the full command line (for display/logging).
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}

// Result captures the outcome of a finished command.
type Result struct {
	ExitCode  int           `json:"exit_code"`
	Stdout    string        `json:"stdout"`
	Stderr    string        `json:"stderr"`
	Combined  string        `json:"combined"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Truncated bool          `json:"truncated,omitempty"`
}

// Output returns the combined output, trimmed.
func (r *Result) Output() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Combined)
}

// SubprocessError reports a command that could not start or exited non-zero.
type SubprocessError struct {
	Command  string
	Dir      string
	ExitCode int // -1 when the process never ran
	Output   string
	Err      error
}

func (e *SubprocessError) Error() string {
	where := ""
	if e.Dir != "" {
		where = fmt.Sprintf(" (in %s)", e.Dir)
	}
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s%s could not run: %v", e.Command, where, e.Err)
	}
	return fmt.Sprintf("%s%s exited with status %d", e.Command, where, e.ExitCode)
}

func (e *SubprocessError) Unwrap() error { return e.Err }

// Tail returns the last n lines of the captured output.
func (e *SubprocessError) Tail(n int) string {
	lines := strings.Split(strings.TrimRight(e.Output, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

package runner

import "context"

// Executor is the interface for command execution.
type Executor interface {
	// Run executes cmd and waits for it. A non-zero exit or a failure to
	// start is returned as *SubprocessError together with whatever Result
	// was gathered.
	Run(ctx context.Context, cmd Command) (*Result, error)

	// LookPath reports where a binary would be found, like exec.LookPath.
	LookPath(name string) (string, error)
}

package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/naikmubashir/setup-template/internal/logging"
)

// DefaultMaxOutputBytes bounds how much output is kept per stream.
const DefaultMaxOutputBytes = 1 << 20

// DirectExecutor executes commands directly on the host using os/exec.
type DirectExecutor struct {
	// Stream, when set, receives live stdout and stderr of every command.
	Stream io.Writer

	// MaxOutputBytes limits captured output per stream.
	MaxOutputBytes int64
}

// NewDirectExecutor creates a direct executor that tees output to stream
// (nil keeps commands quiet).
func NewDirectExecutor(stream io.Writer) *DirectExecutor {
	return &DirectExecutor{Stream: stream, MaxOutputBytes: DefaultMaxOutputBytes}
}

// LookPath searches PATH for a binary.
func (e *DirectExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes cmd on the host.
func (e *DirectExecutor) Run(ctx context.Context, cmd Command) (*Result, error) {
	timer := logging.StartTimer(logging.CategoryExec, cmd.String())
	defer timer.Stop()

	logging.Exec("running %s (dir=%q)", cmd, cmd.Dir)

	result := &Result{ExitCode: -1}
	if cmd.Binary == "" {
		return result, &SubprocessError{ExitCode: -1, Err: errors.New("binary is required")}
	}

	execCmd := exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.Env = append(os.Environ(), cmd.Env...)

	limit := e.MaxOutputBytes
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}

	var stdoutBuf, stderrBuf, combinedBuf bytes.Buffer
	combined := &lockedWriter{w: &limitedWriter{w: &combinedBuf, max: 2 * limit}}
	stdoutLimited := &limitedWriter{w: &stdoutBuf, max: limit}
	stderrLimited := &limitedWriter{w: &stderrBuf, max: limit}

	stdout := []io.Writer{stdoutLimited, combined}
	stderr := []io.Writer{stderrLimited, combined}
	if e.Stream != nil {
		stream := &lockedWriter{w: e.Stream}
		stdout = append(stdout, stream)
		stderr = append(stderr, stream)
	}
	execCmd.Stdout = io.MultiWriter(stdout...)
	execCmd.Stderr = io.MultiWriter(stderr...)

	result.StartedAt = time.Now()
	err := execCmd.Run()
	result.Duration = time.Since(result.StartedAt)

	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()
	result.Combined = combinedBuf.String()
	result.Truncated = stdoutLimited.truncated || stderrLimited.truncated

	if err == nil {
		result.ExitCode = 0
		logging.Exec("%s succeeded in %s", cmd, result.Duration)
		return result, nil
	}

	subErr := &SubprocessError{
		Command:  cmd.String(),
		Dir:      cmd.Dir,
		ExitCode: -1,
		Output:   result.Combined,
		Err:      err,
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		subErr.Err = ctx.Err()
		logging.ExecError("%s interrupted: %v", cmd, ctx.Err())
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		subErr.ExitCode = result.ExitCode
		logging.ExecError("%s exited %d", cmd, result.ExitCode)
	default:
		logging.ExecError("%s failed to start: %v", cmd, err)
	}
	return result, subErr
}

// limitedWriter is an io.Writer that limits total bytes kept.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.written >= lw.max {
		lw.truncated = true
		return n, nil // Pretend we wrote it
	}

	remaining := lw.max - lw.written
	if int64(n) > remaining {
		lw.truncated = true
		p = p[:remaining]
	}
	written, err := lw.w.Write(p)
	lw.written += int64(written)
	if err != nil {
		return written, err
	}
	return n, nil // Original length avoids "short write" errors
}

// lockedWriter serializes writes coming from the stdout and stderr copiers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

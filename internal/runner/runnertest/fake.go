// Package runnertest provides a recording runner.Executor for tests.
package runnertest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/naikmubashir/setup-template/internal/runner"
)

// Response is the scripted outcome of one command.
type Response struct {
	Stdout   string
	ExitCode int
	Err      error // returned as-is when set, instead of an exit-code error
	Block    bool  // wait for the context to end before answering
}

// Executor records every command and answers from a script keyed by the
// command line ("npm install", "git commit -m msg", ...). Unscripted commands
// succeed with empty output.
type Executor struct {
	mu        sync.Mutex
	Responses map[string]Response
	Installed map[string]bool // nil means every binary is installed
	Calls     []runner.Command

	// OnRun, when set, is called before a command is answered.
	OnRun func(cmd runner.Command)
}

// New creates an executor where every binary is installed.
func New() *Executor {
	return &Executor{Responses: make(map[string]Response)}
}

// Script sets the response for a command line.
func (f *Executor) Script(commandLine string, resp Response) *Executor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[commandLine] = resp
	return f
}

// Only marks the given binaries as the only installed ones.
func (f *Executor) Only(binaries ...string) *Executor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Installed = make(map[string]bool)
	for _, b := range binaries {
		f.Installed[b] = true
	}
	return f
}

// LookPath implements runner.Executor.
func (f *Executor) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Installed != nil && !f.Installed[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// Run implements runner.Executor.
func (f *Executor) Run(ctx context.Context, cmd runner.Command) (*runner.Result, error) {
	if f.OnRun != nil {
		f.OnRun(cmd)
	}

	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	resp := f.Responses[cmd.String()]
	f.mu.Unlock()

	if resp.Block {
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return &runner.Result{ExitCode: -1}, &runner.SubprocessError{Command: cmd.String(), Dir: cmd.Dir, ExitCode: -1, Err: err}
	}
	if resp.Err != nil {
		return &runner.Result{ExitCode: -1}, resp.Err
	}

	result := &runner.Result{ExitCode: resp.ExitCode, Stdout: resp.Stdout, Combined: resp.Stdout}
	if resp.ExitCode != 0 {
		return result, &runner.SubprocessError{
			Command:  cmd.String(),
			Dir:      cmd.Dir,
			ExitCode: resp.ExitCode,
			Output:   resp.Stdout,
			Err:      fmt.Errorf("exit status %d", resp.ExitCode),
		}
	}
	return result, nil
}

// CommandLines returns the recorded calls as "dir$ command" strings.
func (f *Executor) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.Dir+"$ "+c.String())
	}
	return lines
}

// Ran reports whether any recorded command line starts with prefix.
func (f *Executor) Ran(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if strings.HasPrefix(c.String(), prefix) {
			return true
		}
	}
	return false
}

// Package setup personalizes a freshly cloned full-stack template: it checks
// host tools, collects project and database details, rewrites manifests and
// environment files, installs dependencies and records an initial commit.
//
// Stages run strictly in order. A fatal error halts the run where it occurs
// and nothing already written is rolled back.
package setup

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/naikmubashir/setup-template/internal/config"
	"github.com/naikmubashir/setup-template/internal/logging"
	"github.com/naikmubashir/setup-template/internal/runner"
	"github.com/naikmubashir/setup-template/internal/ui"
)

// Prompter is the interactive input the workflow needs.
type Prompter interface {
	Ask(label, def string) (string, error)
	AskSecret(label, def string) (string, error)
	Confirm(question string) (bool, error)
}

// Workflow wires the stages to their collaborators.
type Workflow struct {
	Workspace string
	Config    *config.Config
	Prompter  Prompter
	Exec      runner.Executor
	UI        *ui.Printer

	// OnTransition, when set, is called as each state is entered.
	OnTransition func(s *Session)
}

type stage struct {
	state State
	run   func(ctx context.Context, s *Session) error
}

func (w *Workflow) stages() []stage {
	return []stage{
		{StatePrerequisiteCheck, w.checkPrerequisites},
		{StateCollectMetadata, w.collectMetadata},
		{StateCollectDatabaseParams, w.collectDatabaseParams},
		{StateConfirmSummary, w.confirmSummary},
		{StatePatchManifests, w.patchManifests},
		{StateWriteVersionMarker, w.writeVersionMarker},
		{StatePatchTitleString, w.patchTitleString},
		{StateWriteEnvironmentFiles, w.writeEnvironmentFiles},
		{StateInstallDependencies, w.installDependencies},
		{StateGenerateClientCode, w.generateClientCode},
		{StateInitializeVersionControl, w.initializeVersionControl},
		{StateDone, w.done},
	}
}

// Run executes every stage in order. Declining the summary returns the
// session with Cancelled set and a nil error. Any other failure is
// returned with the session's FailedAt pointing at the failing state.
func (w *Workflow) Run(ctx context.Context) (*Session, error) {
	if w.Config == nil {
		w.Config = config.DefaultConfig()
	}
	workspace, err := filepath.Abs(w.Workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	s := newSession(workspace)
	logging.WithRunID(s.RunID)
	logging.Workflow("starting setup in %s", workspace)

	defer func() {
		s.Duration = time.Since(s.StartedAt)
	}()

	for _, st := range w.stages() {
		if err := ctx.Err(); err != nil {
			return w.fail(s, st.state, err)
		}

		s.State = st.state
		logging.Workflow("entering %s", st.state)
		if w.OnTransition != nil {
			w.OnTransition(s)
		}

		timer := logging.StartTimer(logging.CategoryWorkflow, st.state.String())
		err := st.run(ctx, s)
		timer.Stop()

		if errors.Is(err, ErrCancelled) {
			s.Cancelled = true
			logging.Workflow("cancelled at %s", st.state)
			return s, nil
		}
		if err != nil {
			return w.fail(s, st.state, err)
		}
	}

	logging.Workflow("setup completed: %d file(s) written, %d warning(s)", len(s.FilesWritten), len(s.Warnings))
	return s, nil
}

func (w *Workflow) fail(s *Session, at State, err error) (*Session, error) {
	s.FailedAt = at
	s.Err = err
	logging.WorkflowError("%s failed: %v", at, err)
	return s, fmt.Errorf("%s: %w", at.Title(), err)
}

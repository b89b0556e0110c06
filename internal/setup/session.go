package setup

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/naikmubashir/setup-template/internal/database"
	"github.com/naikmubashir/setup-template/internal/prereq"
	"github.com/naikmubashir/setup-template/internal/textpatch"
)

// ErrCancelled is returned by a stage when the operator declines to proceed.
// Run turns it into a clean, successful exit.
var ErrCancelled = errors.New("setup cancelled by user")

// Metadata is the project information written into both manifests.
type Metadata struct {
	Name        string
	Description string
	Author      string
	Version     string
	License     string
}

// Session carries everything collected and decided during one run. Each
// stage reads what earlier stages produced and records its own outcome.
type Session struct {
	RunID     string
	Workspace string
	State     State

	Prereqs     *prereq.Report
	Metadata    Metadata
	Database    database.Params
	DatabaseURL string

	TitleResult   textpatch.Result
	ReinitSkipped bool

	FilesWritten []string
	Warnings     []string

	Cancelled bool
	FailedAt  State // StateNone unless Err is set
	Err       error

	StartedAt time.Time
	Duration  time.Duration
}

func newSession(workspace string) *Session {
	return &Session{
		RunID:     uuid.NewString(),
		Workspace: workspace,
		StartedAt: time.Now(),
	}
}

func (s *Session) warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

func (s *Session) wrote(path string) {
	s.FilesWritten = append(s.FilesWritten, path)
}

// path resolves rel against the workspace.
func (s *Session) path(rel string) string {
	return filepath.Join(s.Workspace, rel)
}

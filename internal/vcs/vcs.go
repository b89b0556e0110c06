// Package vcs wraps the few git operations the initializer needs: detecting
// existing history, discarding it, and recording a single initial commit.
package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/naikmubashir/setup-template/internal/logging"
	"github.com/naikmubashir/setup-template/internal/runner"
)

// DirName is the metadata directory that marks an existing repository.
const DirName = ".git"

// Repo is a working tree driven through an external git binary.
type Repo struct {
	Dir    string
	Exec   runner.Executor
	Binary string // defaults to "git"
}

// New creates a Repo for dir.
func New(dir string, exec runner.Executor) *Repo {
	return &Repo{Dir: dir, Exec: exec, Binary: "git"}
}

func (r *Repo) binary() string {
	if r.Binary == "" {
		return "git"
	}
	return r.Binary
}

// Exists reports whether dir already carries version-control history.
func (r *Repo) Exists() bool {
	info, err := os.Stat(filepath.Join(r.Dir, DirName))
	return err == nil && info.IsDir()
}

// Remove deletes the existing history. The working tree is not touched.
func (r *Repo) Remove() error {
	path := filepath.Join(r.Dir, DirName)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	logging.VCSWarn("removed existing history at %s", path)
	return nil
}

// Init creates an empty repository.
func (r *Repo) Init(ctx context.Context) error {
	return r.git(ctx, "init")
}

// CommitAll stages every file and records one commit with message.
func (r *Repo) CommitAll(ctx context.Context, message string) error {
	if err := r.git(ctx, "add", "-A"); err != nil {
		return err
	}
	return r.git(ctx, "commit", "-m", message)
}

func (r *Repo) git(ctx context.Context, args ...string) error {
	cmd := runner.Command{Binary: r.binary(), Args: args, Dir: r.Dir}
	logging.VCS("running %s", cmd)
	if _, err := r.Exec.Run(ctx, cmd); err != nil {
		return err
	}
	return nil
}

// InitialCommitMessage returns the message used for the first commit.
func InitialCommitMessage(projectName string) string {
	return "Initial commit: " + projectName
}

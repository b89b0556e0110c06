package vcs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naikmubashir/setup-template/internal/runner"
	"github.com/naikmubashir/setup-template/internal/runner/runnertest"
)

func TestRepo_Exists(t *testing.T) {
	dir := t.TempDir()
	repo := New(dir, runnertest.New())
	assert.False(t, repo.Exists())

	// A plain file named .git is not a repository.
	require.NoError(t, os.WriteFile(filepath.Join(dir, DirName), []byte("gitdir: elsewhere"), 0644))
	assert.False(t, repo.Exists())

	require.NoError(t, os.Remove(filepath.Join(dir, DirName)))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DirName, "objects"), 0755))
	assert.True(t, repo.Exists())

	require.NoError(t, repo.Remove())
	assert.False(t, repo.Exists())
}

func TestRepo_InitAndCommit(t *testing.T) {
	dir := t.TempDir()
	fake := runnertest.New()
	repo := New(dir, fake)

	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))
	require.NoError(t, repo.CommitAll(ctx, InitialCommitMessage("demo-app")))

	assert.Equal(t, []string{
		dir + "$ git init",
		dir + "$ git add -A",
		dir + "$ git commit -m Initial commit: demo-app",
	}, fake.CommandLines())
	assert.Equal(t, []string{"commit", "-m", "Initial commit: demo-app"}, fake.Calls[2].Args)
}

func TestRepo_CommitAllStopsAfterFailedAdd(t *testing.T) {
	fake := runnertest.New().Script("git add -A", runnertest.Response{Stdout: "fatal: bad", ExitCode: 128})
	repo := New(t.TempDir(), fake)

	err := repo.CommitAll(context.Background(), "msg")
	require.Error(t, err)

	var subErr *runner.SubprocessError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, 128, subErr.ExitCode)
	assert.False(t, fake.Ran("git commit"))
}

func TestRepo_CustomBinary(t *testing.T) {
	fake := runnertest.New()
	repo := &Repo{Dir: t.TempDir(), Exec: fake, Binary: "/opt/git/bin/git"}
	require.NoError(t, repo.Init(context.Background()))
	assert.Equal(t, "/opt/git/bin/git", fake.Calls[0].Binary)
}

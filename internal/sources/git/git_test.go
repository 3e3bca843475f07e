package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/logging"
)

func writeDoc(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
}

func TestDocumentsOffline(t *testing.T) {
	work := t.TempDir()
	text := filepath.Join(work, "text")
	writeDoc(t, text, "0050-foo.md", "- Start Date: 2020-01-01\n")
	writeDoc(t, text, "0001-bar.md", "# Bar\n")
	require.NoError(t, os.Mkdir(filepath.Join(text, "resources"), 0o755))

	repo := New(work, WithOffline(true), WithLogger(logging.NewNopLogger()))
	docs, err := repo.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "0001-bar.md", docs[0].Filename)
	assert.Equal(t, "0050-foo.md", docs[1].Filename)
	assert.Equal(t, "- Start Date: 2020-01-01\n", docs[1].Text)
}

func TestDocumentsMissingTextDir(t *testing.T) {
	repo := New(t.TempDir(), WithOffline(true), WithLogger(logging.NewNopLogger()))
	_, err := repo.Documents(context.Background())
	assert.True(t, errors.IsNotFound(err))
}

func gitAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestSyncCloneThenPull(t *testing.T) {
	gitAvailable(t)

	upstream := t.TempDir()
	runGit(t, upstream, "init", "--initial-branch=master")
	writeDoc(t, filepath.Join(upstream, "text"), "0001-first.md", "- Start Date: 2014-01-01\n")
	runGit(t, upstream, "add", ".")
	runGit(t, upstream, "commit", "-m", "first")

	work := filepath.Join(t.TempDir(), "work")
	repo := New(work, WithURL(upstream), WithBranch("master"), WithLogger(logging.NewNopLogger()))

	docs, err := repo.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	writeDoc(t, filepath.Join(upstream, "text"), "0002-second.md", "- Start Date: 2014-02-01\n")
	runGit(t, upstream, "add", ".")
	runGit(t, upstream, "commit", "-m", "second")

	docs, err = repo.Documents(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestSyncFailure(t *testing.T) {
	gitAvailable(t)

	repo := New(filepath.Join(t.TempDir(), "work"),
		WithURL(filepath.Join(t.TempDir(), "does-not-exist")),
		WithLogger(logging.NewNopLogger()),
	)
	err := repo.Sync(context.Background())
	require.Error(t, err)

	var perr *errors.ProcessError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "clone repository", perr.Operation)
}

// Package git provides the tracked documents from a local working copy of the
// source repository, cloning or pulling it before each listing.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/logging"
	"github.com/agentstation/rfcindex/pkg/sources"
)

// Repository is a DocumentSource over a git working copy.
type Repository struct {
	dir     string
	url     string
	branch  string
	textDir string
	offline bool
	logger  *zerolog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithURL sets the remote to clone from.
func WithURL(url string) Option {
	return func(r *Repository) {
		if url != "" {
			r.url = url
		}
	}
}

// WithBranch sets the branch to pull.
func WithBranch(branch string) Option {
	return func(r *Repository) {
		if branch != "" {
			r.branch = branch
		}
	}
}

// WithTextDir sets the directory, relative to the working copy, holding the documents.
func WithTextDir(dir string) Option {
	return func(r *Repository) {
		if dir != "" {
			r.textDir = dir
		}
	}
}

// WithOffline lists the working copy as-is without cloning or pulling.
func WithOffline(offline bool) Option {
	return func(r *Repository) {
		r.offline = offline
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a repository whose working copy lives in dir.
func New(dir string, opts ...Option) *Repository {
	if dir == "" {
		dir = constants.DefaultWorkDir
	}
	r := &Repository{
		dir:     dir,
		url:     constants.DefaultRepoURL,
		branch:  constants.DefaultRepoBranch,
		textDir: constants.DefaultTextDir,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the working copy path.
func (r *Repository) Dir() string {
	return r.dir
}

// Documents implements sources.DocumentSource. It syncs the working copy
// unless offline, then reads every file in the text directory.
func (r *Repository) Documents(ctx context.Context) ([]sources.Document, error) {
	if !r.offline {
		if err := r.Sync(ctx); err != nil {
			return nil, err
		}
	}

	textPath := filepath.Join(r.dir, r.textDir)
	entries, err := os.ReadDir(textPath)
	if err != nil {
		return nil, errors.WrapIO("list", textPath, err)
	}

	docs := make([]sources.Document, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			r.logger.Warn().Err(err).Str("entry", entry.Name()).Msg("Skipping unreadable directory entry")
			continue
		}
		if info.IsDir() {
			continue
		}
		path := filepath.Join(textPath, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}
		docs = append(docs, sources.Document{Filename: entry.Name(), Text: string(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })

	r.logger.Debug().Int("documents", len(docs)).Str("path", textPath).Msg("Listed tracked documents")
	return docs, nil
}

// Sync clones the repository when the working copy is missing and pulls otherwise.
func (r *Repository) Sync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.GitTimeout)
	defer cancel()

	if r.exists() {
		r.logger.Info().Str("dir", r.dir).Str("branch", r.branch).Msg("Pulling source repository")
		return r.run(ctx, r.dir, "pull", "git", "pull", "--ff-only", "origin", r.branch)
	}

	if err := os.MkdirAll(filepath.Dir(filepath.Clean(r.dir)), constants.DirPermissions); err != nil {
		return errors.WrapIO("create directory", filepath.Dir(r.dir), err)
	}
	r.logger.Info().Str("url", r.url).Str("dir", r.dir).Msg("Cloning source repository")
	return r.run(ctx, "", "clone", "git", "clone", "--branch", r.branch, r.url, r.dir)
}

func (r *Repository) exists() bool {
	_, err := os.Stat(filepath.Join(r.dir, ".git"))
	return err == nil
}

func (r *Repository) run(ctx context.Context, dir, operation string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // arguments come from configuration
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &errors.ProcessError{
			Operation: operation + " repository",
			Command:   name + " " + strings.Join(args, " "),
			Output:    strings.TrimSpace(string(output)),
			Err:       err,
		}
	}
	return nil
}

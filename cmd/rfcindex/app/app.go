// Package app provides the application context and dependency management
// for the rfcindex CLI: configuration, logging and the lazily built client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex"
	"github.com/agentstation/rfcindex/cmd/application"
)

// App holds the configuration, logger and client shared by every command.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Client is created on first use.
	mu     sync.Mutex
	client *rfcindex.Client
}

var _ application.Application = (*App)(nil)

// New creates an App with configuration loaded from the environment.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format value.
func (a *App) OutputFormat() string { return a.config.Format }

// Client returns the rfcindex client, creating it on first use.
func (a *App) Client() (*rfcindex.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}
	client, err := rfcindex.New(a.clientOptions()...)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// Shutdown releases the client's network resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		a.client.Close()
	}
	return nil
}

func (a *App) clientOptions() []rfcindex.Option {
	c := a.config
	opts := []rfcindex.Option{
		rfcindex.WithMetadataDir(c.MetadataDir),
		rfcindex.WithWorkDir(c.WorkDir),
		rfcindex.WithTextDir(c.TextDir),
		rfcindex.WithRepository(c.RepoURL, c.RepoBranch),
		rfcindex.WithOffline(c.Offline),
		rfcindex.WithGitHub(c.GitHubRepo, c.GitHubAPIURL),
		rfcindex.WithGitHubToken(c.GitHubToken),
		rfcindex.WithLogger(a.logger),
	}
	if c.LabelTimeout > 0 {
		opts = append(opts, rfcindex.WithLabelTimeout(c.LabelTimeout))
	}
	if c.TeamRules != "" {
		opts = append(opts, rfcindex.WithTeamRulesFile(c.TeamRules))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a prebuilt client.
func WithClient(client *rfcindex.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}

// Package rfcindex maintains per-document metadata records for a repository of
// numbered design documents. It wires the file-backed record and tag stores,
// the git working copy, the GitHub label tracker and the label classifier into
// a reconciliation engine, and exposes the engine's operations together with
// queries, audits and a markdown index over the stored records.
package rfcindex

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/internal/sources/git"
	"github.com/agentstation/rfcindex/internal/sources/github"
	"github.com/agentstation/rfcindex/internal/watch"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/index"
	"github.com/agentstation/rfcindex/pkg/labels"
	"github.com/agentstation/rfcindex/pkg/logging"
	"github.com/agentstation/rfcindex/pkg/query"
	"github.com/agentstation/rfcindex/pkg/reconciler"
	"github.com/agentstation/rfcindex/pkg/records"
	"github.com/agentstation/rfcindex/pkg/tags"
)

// Client is the entry point to a metadata directory.
type Client struct {
	cfg     *config
	logger  *zerolog.Logger
	records *records.FileStore
	tags    *tags.FileStore
	repo    *git.Repository
	tracker *github.Source
	engine  *reconciler.Engine
}

// New creates a client over the configured metadata directory. Nothing is
// read or fetched until an operation runs.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = logging.Default()
	}

	rules := cfg.rules
	if rules == nil && cfg.teamRulesFile != "" {
		loaded, err := labels.LoadRules(cfg.teamRulesFile)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}
	classifier := labels.NewClassifier(labels.WithRules(rules), labels.WithLogger(logger))

	c := &Client{
		cfg:     cfg,
		logger:  logger,
		records: records.NewFileStore(cfg.metadataDir, records.WithStoreLogger(logger)),
		tags:    tags.NewFileStore(cfg.metadataDir),
	}

	engineOpts := []reconciler.Option{
		reconciler.WithClassifier(classifier),
		reconciler.WithLabelTimeout(cfg.labelTimeout),
		reconciler.WithLogger(logger),
	}

	if cfg.documents != nil {
		engineOpts = append(engineOpts, reconciler.WithDocumentSource(cfg.documents))
	} else {
		c.repo = git.New(cfg.workDir,
			git.WithURL(cfg.repoURL),
			git.WithBranch(cfg.repoBranch),
			git.WithTextDir(cfg.textDir),
			git.WithOffline(cfg.offline),
			git.WithLogger(logger),
		)
		engineOpts = append(engineOpts, reconciler.WithDocumentSource(c.repo))
	}

	if cfg.labels != nil {
		engineOpts = append(engineOpts, reconciler.WithLabelSource(cfg.labels))
	} else {
		c.tracker = github.New(cfg.githubRepo, cfg.githubToken,
			github.WithBaseURL(cfg.githubAPIURL),
			github.WithTimeout(cfg.labelTimeout),
			github.WithLogger(logger),
		)
		engineOpts = append(engineOpts, reconciler.WithLabelSource(c.tracker))
	}

	engine, err := reconciler.New(c.records, c.tags, engineOpts...)
	if err != nil {
		return nil, err
	}
	c.engine = engine
	return c, nil
}

// MetadataDir returns the directory holding the records.
func (c *Client) MetadataDir() string {
	return c.cfg.metadataDir
}

// RecordPath returns the file a record is stored in.
func (c *Client) RecordPath(number int) string {
	return c.records.Path(number)
}

// DictionaryPath returns the tag dictionary file.
func (c *Client) DictionaryPath() string {
	return c.tags.Path()
}

// Engine exposes the underlying reconciliation engine.
func (c *Client) Engine() *reconciler.Engine {
	return c.engine
}

// Add creates a record from caller-supplied fields.
func (c *Client) Add(ctx context.Context, p reconciler.AddParams) (*records.Record, error) {
	return c.engine.Add(ctx, p)
}

// Set overwrites selected fields of an existing record.
func (c *Client) Set(ctx context.Context, p reconciler.SetParams) (*records.Record, error) {
	return c.engine.Set(ctx, p)
}

// Record returns the record for number.
func (c *Client) Record(ctx context.Context, number int) (*records.Record, error) {
	return c.engine.Get(ctx, number)
}

// Delete removes the record for number.
func (c *Client) Delete(ctx context.Context, number int) error {
	return c.engine.Delete(ctx, number)
}

// Records returns every record sorted by number.
func (c *Client) Records(ctx context.Context) ([]*records.Record, error) {
	return c.engine.AllRecords(ctx)
}

// Dictionary returns the stored tag dictionary.
func (c *Client) Dictionary(ctx context.Context) (*tags.Dictionary, error) {
	return c.engine.Dictionary(ctx)
}

// Scan creates records for merged documents that have none, or refreshes
// every record when force is set.
func (c *Client) Scan(ctx context.Context, force bool) (*reconciler.Result, error) {
	return c.engine.ScanMerged(ctx, reconciler.ScanParams{Force: force})
}

// UpdateTags adds an explicit tag and/or tracker-derived teams and tags to records.
func (c *Client) UpdateTags(ctx context.Context, p reconciler.TagParams) (*reconciler.Result, error) {
	return c.engine.UpdateTags(ctx, p)
}

// InitDictionary rebuilds the tag dictionary from tracker labels.
func (c *Client) InitDictionary(ctx context.Context) (*reconciler.Result, error) {
	return c.engine.InitDictionary(ctx)
}

// Sync brings the source working copy up to date. It is a no-op when a
// custom document source is configured.
func (c *Client) Sync(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	return c.repo.Sync(ctx)
}

// Stats summarizes every stored record.
func (c *Client) Stats(ctx context.Context) (query.Stats, error) {
	recs, err := c.Records(ctx)
	if err != nil {
		return query.Stats{}, err
	}
	return query.ComputeStats(recs), nil
}

// List returns the records matching filter.
func (c *Client) List(ctx context.Context, filter query.Filter) ([]*records.Record, error) {
	recs, err := c.Records(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(recs)
}

// Check audits every stored record. A missing tag dictionary disables the
// unknown-tag check instead of failing.
func (c *Client) Check(ctx context.Context, opts query.CheckOptions) ([]query.Issue, error) {
	recs, err := c.Records(ctx)
	if err != nil {
		return nil, err
	}
	dict, err := c.Dictionary(ctx)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	return query.Check(recs, dict, opts), nil
}

// WriteIndex renders the markdown index of every record to w.
func (c *Client) WriteIndex(ctx context.Context, w io.Writer, opts ...index.Option) error {
	recs, err := c.Records(ctx)
	if err != nil {
		return err
	}
	opts = append([]index.Option{index.WithRepository(c.cfg.githubRepo, c.cfg.repoBranch)}, opts...)
	return index.Write(w, recs, opts...)
}

// Watch audits the metadata directory once and again after every batch of
// record changes, until ctx is done. fn receives each audit's outcome.
func (c *Client) Watch(ctx context.Context, opts query.CheckOptions, fn func(issues []query.Issue, err error)) error {
	w, err := watch.New(c.cfg.metadataDir, watch.WithLogger(c.logger))
	if err != nil {
		return err
	}
	fn(c.Check(ctx, opts))
	return w.Run(ctx, func([]string) {
		fn(c.Check(ctx, opts))
	})
}

// Close releases idle tracker connections.
func (c *Client) Close() {
	if c.tracker != nil {
		c.tracker.Close()
	}
}

// Package reconciler merges hand-authored records, scanned source documents
// and tracker labels into one consistent metadata record per document.
//
// All mutations are synchronous and assume a single writer. Batch operations
// process documents one at a time and stop at the first failure; records
// saved before the failure stay valid, so a batch can simply be re-run.
package reconciler

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/labels"
	"github.com/agentstation/rfcindex/pkg/logging"
	"github.com/agentstation/rfcindex/pkg/records"
	"github.com/agentstation/rfcindex/pkg/sources"
	"github.com/agentstation/rfcindex/pkg/tags"
	"github.com/agentstation/rfcindex/pkg/tokens"
)

// Engine is the reconciliation engine.
type Engine struct {
	records    records.Store
	tags       tags.Store
	documents  sources.DocumentSource
	labels     sources.LabelSource
	classifier *labels.Classifier
	opts       *options
}

// New creates an engine over the given stores.
func New(recordStore records.Store, tagStore tags.Store, opts ...Option) (*Engine, error) {
	if recordStore == nil {
		return nil, &errors.ValidationError{Field: "record store", Message: "cannot be nil"}
	}
	if tagStore == nil {
		return nil, &errors.ValidationError{Field: "tag store", Message: "cannot be nil"}
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	classifier := o.classifier
	if classifier == nil {
		classifier = labels.NewClassifier(labels.WithLogger(o.logger))
	}
	return &Engine{
		records:    recordStore,
		tags:       tagStore,
		documents:  o.documents,
		labels:     o.labels,
		classifier: classifier,
		opts:       o,
	}, nil
}

func (e *Engine) logger(ctx context.Context) *zerolog.Logger {
	if e.opts.logger != nil {
		return e.opts.logger
	}
	return logging.FromContext(ctx)
}

// AddParams are the fields of a manually added record.
type AddParams struct {
	Number      int
	Filename    string
	StartDate   string
	MergeDate   *string
	Title       *string
	FeatureName []string
	Issues      []string
	Teams       []records.Team
	Tags        []string
	// Force overwrites an existing record.
	Force bool
}

// Add creates a record from caller-supplied fields. It fails with
// AlreadyExists when a record exists, unless Force is set.
func (e *Engine) Add(ctx context.Context, p AddParams) (*records.Record, error) {
	if err := validateFilename(p.Number, p.Filename); err != nil {
		return nil, err
	}
	for _, tag := range p.Tags {
		if err := ValidateTag(tag); err != nil {
			return nil, err
		}
	}

	exists, err := e.records.Exists(p.Number)
	if err != nil {
		return nil, err
	}
	if exists && !p.Force {
		return nil, &errors.AlreadyExistsError{Resource: "metadata for RFC", ID: itoa(p.Number)}
	}

	r := records.New(p.Number, p.Filename, p.StartDate)
	r.MergeDate = p.MergeDate
	r.Title = p.Title
	if p.FeatureName != nil {
		r.FeatureName = slices.Clone(p.FeatureName)
	}
	if p.Issues != nil {
		r.Issues = slices.Clone(p.Issues)
	}
	r.SetTeams(p.Teams)
	r.SetTags(p.Tags)

	if err := e.records.Save(r); err != nil {
		return nil, err
	}
	e.logger(ctx).Info().Int("number", p.Number).Bool("overwrite", exists).Msg("Added record")
	return r, nil
}

// SetParams selects fields to overwrite. Nil fields are left untouched; a
// non-nil empty slice clears the field.
type SetParams struct {
	Number      int
	Filename    *string
	StartDate   *string
	MergeDate   *string
	Title       *string
	FeatureName []string
	Issues      []string
	Teams       []records.Team
	Tags        []string
}

// Set overwrites the supplied fields of an existing record.
func (e *Engine) Set(ctx context.Context, p SetParams) (*records.Record, error) {
	r, err := e.Get(ctx, p.Number)
	if err != nil {
		return nil, err
	}

	if p.Filename != nil {
		if err := validateFilename(p.Number, *p.Filename); err != nil {
			return nil, err
		}
		r.Filename = *p.Filename
	}
	if p.StartDate != nil {
		r.StartDate = *p.StartDate
	}
	if p.MergeDate != nil {
		r.MergeDate = optional(*p.MergeDate)
	}
	if p.Title != nil {
		r.Title = optional(*p.Title)
	}
	if p.FeatureName != nil {
		r.FeatureName = slices.Clone(p.FeatureName)
	}
	if p.Issues != nil {
		r.Issues = slices.Clone(p.Issues)
	}
	if p.Teams != nil {
		r.SetTeams(p.Teams)
	}
	if p.Tags != nil {
		for _, tag := range p.Tags {
			if err := ValidateTag(tag); err != nil {
				return nil, err
			}
		}
		r.SetTags(p.Tags)
	}

	if err := e.records.Save(r); err != nil {
		return nil, err
	}
	e.logger(ctx).Info().Int("number", p.Number).Msg("Updated record")
	return r, nil
}

// Get returns the record for number, or MissingMetadata.
func (e *Engine) Get(_ context.Context, number int) (*records.Record, error) {
	r, err := e.records.Open(number)
	if err != nil {
		if isMissing(err) {
			return nil, &errors.MissingMetadataError{Number: number}
		}
		return nil, err
	}
	return r, nil
}

// Delete removes the record for number.
func (e *Engine) Delete(ctx context.Context, number int) error {
	if err := e.records.Delete(number); err != nil {
		if isMissing(err) {
			return &errors.MissingMetadataError{Number: number}
		}
		return err
	}
	e.logger(ctx).Info().Int("number", number).Msg("Deleted record")
	return nil
}

// AllRecords returns every record sorted by number. A single unreadable
// record fails the whole call.
func (e *Engine) AllRecords(_ context.Context) ([]*records.Record, error) {
	return e.records.All()
}

// Dictionary returns the stored tag dictionary.
func (e *Engine) Dictionary(_ context.Context) (*tags.Dictionary, error) {
	return e.tags.Read()
}

// ValidateTag checks that tag is exactly one token.
func ValidateTag(tag string) error {
	parsed := tokens.Parse(tag)
	if len(parsed) != 1 || parsed[0] != tag {
		return errors.NewValidationError("tag", tag, "must be a single token")
	}
	return nil
}

func validateFilename(number int, filename string) error {
	if number <= 0 {
		return errors.NewValidationError("number", number, "must be positive")
	}
	if filename == "" {
		return errors.NewValidationError("filename", filename, "cannot be empty")
	}
	n, err := sources.ParseNumber(filename)
	if err != nil {
		return err
	}
	if n != number {
		return errors.NewValidationError("filename", filename, "number prefix does not match RFC "+itoa(number))
	}
	return nil
}

func isMissing(err error) bool {
	var nf *errors.NotFoundError
	return errors.As(err, &nf)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package reconciler

import (
	"context"
	"slices"
	"strconv"

	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/labels"
	"github.com/agentstation/rfcindex/pkg/logging"
	"github.com/agentstation/rfcindex/pkg/records"
	"github.com/agentstation/rfcindex/pkg/sources"
	"github.com/agentstation/rfcindex/pkg/tags"
)

// ScanParams controls ScanMerged.
type ScanParams struct {
	// Force rebuilds records that already exist.
	Force bool
}

// ScanMerged builds a record for every tracked document that has none (or
// every document, with Force) from its header and its tracker labels.
// Title and merge date cannot be scanned and are kept from a forced record.
func (e *Engine) ScanMerged(ctx context.Context, p ScanParams) (*Result, error) {
	ctx = logging.WithOperation(ctx, string(OperationScan))
	log := e.logger(ctx)
	result := NewResult(OperationScan)
	result.Metadata.Force = p.Force
	defer result.Finalize()

	if err := e.requireSources(); err != nil {
		return nil, err
	}
	dict, err := e.tags.Read()
	if err != nil {
		return nil, err
	}
	docs, err := e.documents.Documents(ctx)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		number, err := doc.Number()
		if err != nil {
			return result, err
		}
		result.Metadata.Processed++

		var existing *records.Record
		exists, err := e.records.Exists(number)
		if err != nil {
			return result, err
		}
		if exists {
			if !p.Force {
				log.Debug().Int("number", number).Msg("Record exists, skipping")
				result.Skipped = append(result.Skipped, number)
				continue
			}
			if existing, err = e.records.Open(number); err != nil {
				return result, err
			}
		}

		r, err := e.buildRecord(ctx, number, doc, dict)
		if err != nil {
			return result, err
		}
		if existing != nil {
			r.Title = existing.Title
			r.MergeDate = existing.MergeDate
		}
		if err := e.records.Save(r); err != nil {
			return result, err
		}

		if exists {
			result.Updated = append(result.Updated, number)
		} else {
			result.Created = append(result.Created, number)
		}
		log.Debug().Int("number", number).Bool("force", p.Force).Msg("Scanned record")
	}

	log.Info().
		Int("created", len(result.Created)).
		Int("updated", len(result.Updated)).
		Int("skipped", len(result.Skipped)).
		Msg("Scan complete")
	return result, nil
}

func (e *Engine) buildRecord(ctx context.Context, number int, doc sources.Document, dict *tags.Dictionary) (*records.Record, error) {
	header, err := sources.ScanHeader(doc.Text)
	if err != nil {
		var perr *errors.ParseError
		if errors.As(err, &perr) {
			perr.What = "header of " + doc.Filename
		}
		return nil, err
	}
	class, err := e.classify(ctx, number, dict)
	if err != nil {
		return nil, err
	}

	r := records.New(number, doc.Filename, header.StartDate)
	r.FeatureName = header.FeatureName
	r.Issues = header.Issues
	r.SetTeams(class.Teams)
	r.SetTags(class.Tags)
	return r, nil
}

// TagParams controls UpdateTags.
type TagParams struct {
	// Numbers selects records; empty means every stored record.
	Numbers []int
	// Tag is appended to each record when non-empty.
	Tag string
	// Scan refreshes teams and tags from tracker labels.
	Scan bool
	// All makes Scan overwrite non-empty teams and tags.
	All bool
}

// UpdateTags optionally refreshes teams and tags from the tracker and
// optionally appends one explicit tag. A scan only fills fields that are
// empty unless All is set. Records are saved only when they change.
func (e *Engine) UpdateTags(ctx context.Context, p TagParams) (*Result, error) {
	ctx = logging.WithOperation(ctx, string(OperationTags))
	log := e.logger(ctx)
	result := NewResult(OperationTags)
	result.Metadata.All = p.All
	defer result.Finalize()

	if p.Tag == "" && !p.Scan {
		return nil, errors.NewValidationError("tag", p.Tag, "give a tag, scan, or both")
	}
	if p.Tag != "" {
		if err := ValidateTag(p.Tag); err != nil {
			return nil, err
		}
	}
	if p.Scan && e.labels == nil {
		return nil, &errors.ValidationError{Field: "label source", Message: "not configured"}
	}

	dict, err := e.tags.Read()
	switch {
	case err == nil:
	case p.Scan || !errors.IsNotFound(err):
		return nil, err
	default:
		dict = nil
	}
	if p.Tag != "" && dict != nil && !dict.Known(p.Tag) {
		log.Warn().Str("tag", p.Tag).Msg("Tag is not in the tag dictionary")
		result.warn("tag %q is not in the tag dictionary", p.Tag)
	}

	numbers := p.Numbers
	if len(numbers) == 0 {
		if numbers, err = e.records.Numbers(); err != nil {
			return nil, err
		}
	}

	for _, number := range numbers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Metadata.Processed++

		r, err := e.Get(ctx, number)
		if err != nil {
			return result, err
		}
		before := r.Clone()

		if p.Scan {
			class, err := e.classify(ctx, number, dict)
			if err != nil {
				return result, err
			}
			if p.All || len(r.Teams) == 0 {
				r.SetTeams(class.Teams)
			}
			if p.All || len(r.Tags) == 0 {
				r.SetTags(class.Tags)
			}
		}
		if p.Tag != "" {
			r.AddTag(p.Tag)
		}

		if sameTeamsAndTags(before, r) {
			result.Skipped = append(result.Skipped, number)
			continue
		}
		if err := e.records.Save(r); err != nil {
			return result, err
		}
		result.Updated = append(result.Updated, number)
		log.Debug().Int("number", number).Strs("tags", r.Tags).Msg("Updated tags")
	}

	log.Info().Int("updated", len(result.Updated)).Int("unchanged", len(result.Skipped)).Msg("Tag update complete")
	return result, nil
}

// InitDictionary rebuilds the tag dictionary from the labels of every
// tracked document and replaces the stored one.
func (e *Engine) InitDictionary(ctx context.Context) (*Result, error) {
	ctx = logging.WithOperation(ctx, string(OperationInitTags))
	log := e.logger(ctx)
	result := NewResult(OperationInitTags)
	defer result.Finalize()

	if err := e.requireSources(); err != nil {
		return nil, err
	}
	docs, err := e.documents.Documents(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]labels.DocumentLabels, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		number, err := doc.Number()
		if err != nil {
			return result, err
		}
		result.Metadata.Processed++
		fetched, err := e.fetchLabels(ctx, number)
		if err != nil {
			return result, err
		}
		all = append(all, labels.DocumentLabels{Number: number, Labels: fetched})
	}

	built, err := e.classifier.BuildDictionary(all)
	if err != nil {
		return result, err
	}
	if err := e.tags.Write(built.Dictionary); err != nil {
		return result, err
	}
	result.Skipped = built.Skipped
	result.Warnings = append(result.Warnings, built.Warnings...)

	log.Info().
		Int("documents", len(all)).
		Int("tags", len(built.Dictionary.ByTag)).
		Int("skipped", len(built.Skipped)).
		Msg("Tag dictionary written")
	return result, nil
}

func (e *Engine) classify(ctx context.Context, number int, dict *tags.Dictionary) (labels.Classification, error) {
	fetched, err := e.fetchLabels(ctx, number)
	if err != nil {
		return labels.Classification{}, err
	}
	return e.classifier.Classify(number, fetched, dict)
}

// fetchLabels runs one label request under the configured timeout.
func (e *Engine) fetchLabels(ctx context.Context, number int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.labelTimeout)
	defer cancel()

	fetched, err := e.labels.Labels(ctx, number)
	if err != nil {
		if errors.IsTracker(err) {
			return nil, err
		}
		return nil, &errors.TrackerError{Number: number, Message: "label fetch failed", Err: err}
	}
	if fetched == nil {
		return nil, &errors.TrackerError{Number: number, Message: "no label data"}
	}
	return fetched, nil
}

func (e *Engine) requireSources() error {
	if e.documents == nil {
		return &errors.ValidationError{Field: "document source", Message: "not configured"}
	}
	if e.labels == nil {
		return &errors.ValidationError{Field: "label source", Message: "not configured"}
	}
	return nil
}

func sameTeamsAndTags(a, b *records.Record) bool {
	return slices.Equal(a.Teams, b.Teams) && slices.Equal(a.Tags, b.Tags)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

package reconciler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/labels"
	"github.com/agentstation/rfcindex/pkg/sources"
)

type options struct {
	documents    sources.DocumentSource
	labels       sources.LabelSource
	classifier   *labels.Classifier
	labelTimeout time.Duration
	logger       *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		labelTimeout: constants.LabelFetchTimeout,
	}
}

// Option is a function that configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithDocumentSource sets where tracked documents come from.
func WithDocumentSource(src sources.DocumentSource) Option {
	return func(o *options) error {
		if src == nil {
			return &errors.ValidationError{Field: "document source", Message: "cannot be nil"}
		}
		o.documents = src
		return nil
	}
}

// WithLabelSource sets where tracker labels come from.
func WithLabelSource(src sources.LabelSource) Option {
	return func(o *options) error {
		if src == nil {
			return &errors.ValidationError{Field: "label source", Message: "cannot be nil"}
		}
		o.labels = src
		return nil
	}
}

// WithClassifier replaces the default label classifier.
func WithClassifier(c *labels.Classifier) Option {
	return func(o *options) error {
		if c == nil {
			return &errors.ValidationError{Field: "classifier", Message: "cannot be nil"}
		}
		o.classifier = c
		return nil
	}
}

// WithLabelTimeout bounds each label fetch.
func WithLabelTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ValidationError{Field: "label timeout", Value: d, Message: "must be positive"}
		}
		o.labelTimeout = d
		return nil
	}
}

// WithLogger sets the engine's base logger. Without it the logger comes
// from each call's context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

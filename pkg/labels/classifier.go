// Package labels turns tracker labels into teams and tags.
//
// Team membership comes from an ordered rule table; tag recognition comes from
// the tag dictionary. In dictionary-initialization mode the classifier goes
// the other way and builds the dictionary from the labels of many documents.
package labels

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/logging"
	"github.com/agentstation/rfcindex/pkg/records"
	"github.com/agentstation/rfcindex/pkg/tags"
)

// Tag label prefixes recognized when building the dictionary.
const (
	TeamTagPrefix  = "T-"
	TopicTagPrefix = "A-"
)

// Classification is the outcome of classifying one document's labels.
type Classification struct {
	Teams []records.Team
	Tags  []string
}

// Classifier maps labels to teams and tags.
type Classifier struct {
	rules  Rules
	logger *zerolog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces the default rule table.
func WithRules(rules Rules) Option {
	return func(c *Classifier) {
		if len(rules) > 0 {
			c.rules = rules
		}
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClassifier returns a classifier using the default rule table unless overridden.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{rules: DefaultRules(), logger: logging.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns the classifier's rule table.
func (c *Classifier) Rules() Rules {
	return c.rules
}

// Classify returns the teams and recognized tags of one document. A nil label
// list means the tracker had no label data and is an error; an empty list is not.
func (c *Classifier) Classify(number int, labels []string, dict *tags.Dictionary) (Classification, error) {
	if labels == nil {
		return Classification{}, &errors.TrackerError{Number: number, Message: "no label data"}
	}
	result := Classification{Teams: []records.Team{}, Tags: []string{}}
	for _, label := range labels {
		if team, ok := c.rules.TeamFor(label); ok && !slices.Contains(result.Teams, team) {
			result.Teams = append(result.Teams, team)
		}
		if dict.Known(label) && !slices.Contains(result.Tags, label) {
			result.Tags = append(result.Tags, label)
		}
	}
	return result, nil
}

// DocumentLabels is the label set of one tracked document.
type DocumentLabels struct {
	Number int
	Labels []string
}

// BuildResult is the outcome of dictionary initialization.
type BuildResult struct {
	Dictionary *tags.Dictionary
	// Skipped lists documents whose tags were dropped for ambiguous ownership.
	Skipped  []int
	Warnings []string
}

// BuildDictionary derives a tag dictionary from many documents' labels. Only
// documents whose labels name exactly one team contribute their tags.
func (c *Classifier) BuildDictionary(docs []DocumentLabels) (*BuildResult, error) {
	buckets := make(map[records.Team][]string)
	result := &BuildResult{Skipped: []int{}, Warnings: []string{}}

	for _, doc := range docs {
		if doc.Labels == nil {
			return nil, &errors.TrackerError{Number: doc.Number, Message: "no label data"}
		}

		var teams []records.Team
		var candidates []string
		for _, label := range doc.Labels {
			if team, ok := c.rules.TeamFor(label); ok {
				if !slices.Contains(teams, team) {
					teams = append(teams, team)
				}
				continue
			}
			if strings.HasPrefix(label, TeamTagPrefix) || strings.HasPrefix(label, TopicTagPrefix) {
				candidates = append(candidates, label)
			}
		}

		if len(candidates) == 0 {
			continue
		}
		switch len(teams) {
		case 1:
			for _, tag := range candidates {
				if !slices.Contains(buckets[teams[0]], tag) {
					buckets[teams[0]] = append(buckets[teams[0]], tag)
				}
			}
		case 0:
			c.skip(result, doc.Number, "no team label; skipping tags")
		default:
			c.skip(result, doc.Number, "labels name more than one team; skipping tags")
		}
	}

	entries := make([]tags.Entry, 0, len(buckets))
	for _, team := range records.Teams() {
		if list := buckets[team]; len(list) > 0 {
			entries = append(entries, tags.Entry{Team: team, Tags: list})
		}
	}
	result.Dictionary = tags.NewDictionary(entries)
	return result, nil
}

func (c *Classifier) skip(result *BuildResult, number int, reason string) {
	c.logger.Warn().Int("number", number).Msg(reason)
	result.Skipped = append(result.Skipped, number)
	result.Warnings = append(result.Warnings, fmt.Sprintf("RFC %d: %s", number, reason))
}

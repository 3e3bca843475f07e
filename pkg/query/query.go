// Package query provides read-only views over the record set: counts,
// filters and a consistency audit.
package query

import (
	"sort"
	"strings"

	"github.com/agentstation/rfcindex/internal/matcher"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/records"
)

// Count is a named tally.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Stats aggregates a record set.
type Stats struct {
	Total        int     `json:"total" yaml:"total"`
	Merged       int     `json:"merged" yaml:"merged"`
	ByTeam       []Count `json:"by_team" yaml:"by_team"`
	ByTag        []Count `json:"by_tag" yaml:"by_tag"`
	MissingTitle int     `json:"missing_title" yaml:"missing_title"`
	MissingTeams int     `json:"missing_teams" yaml:"missing_teams"`
	MissingTags  int     `json:"missing_tags" yaml:"missing_tags"`
}

// ComputeStats counts records by team and tag. Teams are listed in display
// order; tags by descending count, then name.
func ComputeStats(recs []*records.Record) Stats {
	s := Stats{Total: len(recs)}
	teams := make(map[records.Team]int)
	tagCounts := make(map[string]int)

	for _, r := range recs {
		if r.MergeDate != nil {
			s.Merged++
		}
		if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
			s.MissingTitle++
		}
		if len(r.Teams) == 0 {
			s.MissingTeams++
		}
		if len(r.Tags) == 0 {
			s.MissingTags++
		}
		for _, team := range r.Teams {
			teams[team]++
		}
		for _, tag := range r.Tags {
			tagCounts[tag]++
		}
	}

	s.ByTeam = make([]Count, 0, len(teams))
	for _, team := range records.Teams() {
		if n := teams[team]; n > 0 {
			s.ByTeam = append(s.ByTeam, Count{Name: team.String(), Count: n})
		}
	}

	s.ByTag = make([]Count, 0, len(tagCounts))
	for tag, n := range tagCounts {
		s.ByTag = append(s.ByTag, Count{Name: tag, Count: n})
	}
	sort.Slice(s.ByTag, func(i, j int) bool {
		if s.ByTag[i].Count != s.ByTag[j].Count {
			return s.ByTag[i].Count > s.ByTag[j].Count
		}
		return s.ByTag[i].Name < s.ByTag[j].Name
	})
	return s
}

// Filter selects records. Zero-valued fields match everything; set fields
// must all match.
type Filter struct {
	Team records.Team
	Tag  string
	// Search matches the display title, filename and feature names. Plain
	// text is a case-insensitive substring search; glob or regex syntax is
	// honored.
	Search       string
	MissingTitle bool
	MissingTeams bool
	MissingTags  bool
}

// Apply returns the matching records sorted by number.
func (f Filter) Apply(recs []*records.Record) ([]*records.Record, error) {
	var search matcher.Matcher
	if f.Search != "" {
		pattern := f.Search
		kind := matcher.Auto
		if !strings.ContainsAny(pattern, "*?[^$()|+\\{}") {
			pattern = "*" + pattern + "*"
			kind = matcher.Glob
		}
		m, err := matcher.New(kind, pattern, matcher.CaseInsensitive())
		if err != nil {
			return nil, errors.NewValidationError("search", f.Search, err.Error())
		}
		search = m
	}

	out := make([]*records.Record, 0, len(recs))
	for _, r := range recs {
		if f.Team != "" && !r.HasTeam(f.Team) {
			continue
		}
		if f.Tag != "" && !hasTag(r, f.Tag) {
			continue
		}
		if f.MissingTitle && r.Title != nil && strings.TrimSpace(*r.Title) != "" {
			continue
		}
		if f.MissingTeams && len(r.Teams) > 0 {
			continue
		}
		if f.MissingTags && len(r.Tags) > 0 {
			continue
		}
		if search != nil && !matchesSearch(search, r) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// hasTag matches the stored tag or its display form.
func hasTag(r *records.Record, tag string) bool {
	for _, t := range r.Tags {
		if t == tag || records.DisplayTag(t) == strings.ToLower(tag) {
			return true
		}
	}
	return false
}

func matchesSearch(m matcher.Matcher, r *records.Record) bool {
	if m.Match(r.DisplayTitle()) || m.Match(r.Filename) {
		return true
	}
	for _, name := range r.FeatureName {
		if m.Match(name) {
			return true
		}
	}
	return false
}

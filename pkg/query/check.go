package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/agentstation/rfcindex/pkg/records"
	"github.com/agentstation/rfcindex/pkg/sources"
	"github.com/agentstation/rfcindex/pkg/tags"
)

// IssueKind classifies an audit finding.
type IssueKind string

// Audit findings.
const (
	IssueNumberMismatch   IssueKind = "number-mismatch"
	IssueDuplicateNumber  IssueKind = "duplicate-number"
	IssueMissingTitle     IssueKind = "missing-title"
	IssueMissingTeams     IssueKind = "missing-teams"
	IssueMissingTags      IssueKind = "missing-tags"
	IssueMissingStartDate IssueKind = "missing-start-date"
	IssueStartDateFormat  IssueKind = "start-date-format"
	IssueUnknownTag       IssueKind = "unknown-tag"
	IssueDuplicateTeam    IssueKind = "duplicate-team"
	IssueDuplicateTag     IssueKind = "duplicate-tag"
)

// Issue is one audit finding.
type Issue struct {
	Number  int       `json:"number" yaml:"number"`
	Kind    IssueKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CheckOptions turns optional findings on.
type CheckOptions struct {
	// Completeness reports records missing a title, teams or tags.
	Completeness bool
}

// Check audits records for inconsistencies. Tags are checked against dict
// when it is non-nil. Findings are sorted by number, then kind.
func Check(recs []*records.Record, dict *tags.Dictionary, opts CheckOptions) []Issue {
	issues := []Issue{}
	add := func(n int, kind IssueKind, format string, args ...any) {
		issues = append(issues, Issue{Number: n, Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[int]int)
	for _, r := range recs {
		seen[r.Number]++
		if seen[r.Number] == 2 {
			add(r.Number, IssueDuplicateNumber, "more than one record claims number %d", r.Number)
		}

		if n, err := sources.ParseNumber(r.Filename); err != nil {
			add(r.Number, IssueNumberMismatch, "filename %q has no number prefix", r.Filename)
		} else if n != r.Number {
			add(r.Number, IssueNumberMismatch, "filename %q does not match number %d", r.Filename, r.Number)
		}

		switch {
		case strings.TrimSpace(r.StartDate) == "":
			add(r.Number, IssueMissingStartDate, "start date is empty")
		case !isoDate.MatchString(r.StartDate):
			add(r.Number, IssueStartDateFormat, "start date %q is not YYYY-MM-DD", r.StartDate)
		}

		for _, team := range duplicates(r.Teams) {
			add(r.Number, IssueDuplicateTeam, "team %q listed more than once", team)
		}
		for _, tag := range duplicates(r.Tags) {
			add(r.Number, IssueDuplicateTag, "tag %q listed more than once", tag)
		}

		if dict != nil {
			for _, tag := range r.Tags {
				if !dict.Known(tag) {
					add(r.Number, IssueUnknownTag, "tag %q is not in the tag dictionary", tag)
				}
			}
		}

		if opts.Completeness {
			if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
				add(r.Number, IssueMissingTitle, "no title")
			}
			if len(r.Teams) == 0 {
				add(r.Number, IssueMissingTeams, "no teams")
			}
			if len(r.Tags) == 0 {
				add(r.Number, IssueMissingTags, "no tags")
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Number != issues[j].Number {
			return issues[i].Number < issues[j].Number
		}
		return issues[i].Kind < issues[j].Kind
	})
	return issues
}

func duplicates[T comparable](list []T) []T {
	var dups []T
	counts := make(map[T]int, len(list))
	for _, v := range list {
		counts[v]++
		if counts[v] == 2 {
			dups = append(dups, v)
		}
	}
	return dups
}

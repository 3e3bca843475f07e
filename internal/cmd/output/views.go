package output

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/rfcindex/pkg/query"
	"github.com/agentstation/rfcindex/pkg/reconciler"
	"github.com/agentstation/rfcindex/pkg/records"
	"github.com/agentstation/rfcindex/pkg/tags"
)

const none = "-"


// Records renders a record list.
type Records []*records.Record

// Value implements the structured-output unwrap.
func (r Records) Value() any { return []*records.Record(r) }

// TableData implements Tabular. Wide adds the start date, feature names and issues.
func (r Records) TableData(wide bool) Data {
	headers := []string{"RFC", "Title", "Teams", "Tags"}
	align := []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Start Date", "Merged", "Features", "Issues")
		align = append(align, AlignLeft, AlignLeft, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(r))
	for _, rec := range r {
		row := []string{
			strconv.Itoa(rec.Number),
			rec.DisplayTitle(),
			TeamList(rec.Teams),
			list(rec.Tags),
		}
		if wide {
			row = append(row,
				orNone(rec.StartDate),
				orNone(deref(rec.MergeDate)),
				list(rec.FeatureName),
				list(rec.Issues),
			)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Record renders a single record as property/value pairs.
type Record struct{ *records.Record }

// Value implements the structured-output unwrap.
func (r Record) Value() any { return r.Record }

// TableData implements Tabular.
func (r Record) TableData(bool) Data {
	rec := r.Record
	name := none
	if rec.Title != nil {
		name = *rec.Title
	}
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Number", strconv.Itoa(rec.Number)},
			{"Filename", rec.Filename},
			{"Title", name},
			{"Start Date", orNone(rec.StartDate)},
			{"Merge Date", orNone(deref(rec.MergeDate))},
			{"Feature Names", list(rec.FeatureName)},
			{"Issues", list(rec.Issues)},
			{"Teams", TeamList(rec.Teams)},
			{"Tags", list(rec.Tags)},
			{"Version", strconv.FormatUint(rec.Version, 10)},
		},
	}
}

// Stats renders record statistics.
type Stats query.Stats

// Value implements the structured-output unwrap.
func (s Stats) Value() any { return query.Stats(s) }

// TableData implements Tabular. The wide form lists every tag rather than
// the ten most used.
func (s Stats) TableData(wide bool) Data {
	rows := [][]string{
		{"total", "", strconv.Itoa(s.Total)},
		{"merged", "", strconv.Itoa(s.Merged)},
		{"missing", "title", strconv.Itoa(s.MissingTitle)},
		{"missing", "teams", strconv.Itoa(s.MissingTeams)},
		{"missing", "tags", strconv.Itoa(s.MissingTags)},
	}
	for _, c := range s.ByTeam {
		rows = append(rows, []string{"team", titleCase(c.Name), strconv.Itoa(c.Count)})
	}
	tagCounts := s.ByTag
	if !wide && len(tagCounts) > 10 {
		tagCounts = tagCounts[:10]
	}
	for _, c := range tagCounts {
		rows = append(rows, []string{"tag", c.Name, strconv.Itoa(c.Count)})
	}
	return Data{
		Headers:         []string{"Group", "Name", "Count"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// Issues renders audit findings.
type Issues []query.Issue

// Value implements the structured-output unwrap.
func (is Issues) Value() any { return []query.Issue(is) }

// TableData implements Tabular.
func (is Issues) TableData(bool) Data {
	rows := make([][]string, 0, len(is))
	for _, i := range is {
		rows = append(rows, []string{strconv.Itoa(i.Number), string(i.Kind), i.Message})
	}
	return Data{
		Headers:         []string{"RFC", "Kind", "Message"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

// Dictionary renders the tag dictionary one team per row.
type Dictionary struct{ *tags.Dictionary }

// Value implements the structured-output unwrap.
func (d Dictionary) Value() any { return d.Entries() }

// TableData implements Tabular.
func (d Dictionary) TableData(bool) Data {
	entries := d.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{titleCase(string(e.Team)), strconv.Itoa(len(e.Tags)), list(e.Tags)})
	}
	return Data{
		Headers:         []string{"Team", "Count", "Tags"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// Result renders the outcome of a batch operation.
type Result struct{ *reconciler.Result }

// Value implements the structured-output unwrap.
func (r Result) Value() any { return r.Result }

// TableData implements Tabular. Warnings are only listed in the wide form.
func (r Result) TableData(wide bool) Data {
	rows := [][]string{
		{"created", strconv.Itoa(len(r.Created)), numbers(r.Created)},
		{"updated", strconv.Itoa(len(r.Updated)), numbers(r.Updated)},
		{"skipped", strconv.Itoa(len(r.Skipped)), numbers(r.Skipped)},
	}
	if wide {
		for _, w := range r.Warnings {
			rows = append(rows, []string{"warning", "", w})
		}
	} else if len(r.Warnings) > 0 {
		rows = append(rows, []string{"warnings", strconv.Itoa(len(r.Warnings)), none})
	}
	return Data{
		Headers:         []string{"Outcome", "Count", "RFCs"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// TeamList joins team display names.
func TeamList(teams []records.Team) string {
	if len(teams) == 0 {
		return none
	}
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = titleCase(string(t))
	}
	return strings.Join(names, ", ")
}

func list(items []string) string {
	if len(items) == 0 {
		return none
	}
	return strings.Join(items, ", ")
}

func numbers(ns []int) string {
	if len(ns) == 0 {
		return none
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

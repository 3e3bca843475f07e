// Package index renders the record set as a Markdown index page.
package index

import (
	"fmt"
	"io"
	"sort"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/records"
)

// DefaultTitle heads the generated page.
const DefaultTitle = "RFC Index"

type options struct {
	title  string
	repo   string
	branch string
	teams  bool
}

// Option configures the generated page.
type Option func(*options)

// WithTitle sets the page heading.
func WithTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// WithRepository sets the GitHub repository and branch documents link to.
func WithRepository(repo, branch string) Option {
	return func(o *options) {
		if repo != "" {
			o.repo = repo
		}
		if branch != "" {
			o.branch = branch
		}
	}
}

// WithTeamSections adds one section per team after the main table.
func WithTeamSections(enabled bool) Option {
	return func(o *options) {
		o.teams = enabled
	}
}

// Write renders recs to w. Records are listed by number.
func Write(w io.Writer, recs []*records.Record, opts ...Option) error {
	o := &options{
		title:  DefaultTitle,
		repo:   constants.DefaultGitHubRepo,
		branch: constants.DefaultRepoBranch,
		teams:  true,
	}
	for _, opt := range opts {
		opt(o)
	}

	sorted := append([]*records.Record(nil), recs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	doc := md.NewMarkdown(w)
	doc.H1(o.title).LF()
	doc.PlainTextf("%d documents.", len(sorted)).LF().LF()

	rows := make([][]string, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, []string{
			md.Link(fmt.Sprintf("%04d", r.Number), o.textURL(r)),
			cell(r.DisplayTitle()),
			cell(joinTeams(r.Teams)),
			cell(joinTags(r.Tags)),
			cell(r.StartDate),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"RFC", "Title", "Teams", "Tags", "Start Date"},
		Rows:   rows,
	}).LF()

	if o.teams {
		for _, team := range records.Teams() {
			var items []string
			for _, r := range sorted {
				if r.HasTeam(team) {
					items = append(items, md.Link(fmt.Sprintf("RFC %d: %s", r.Number, r.DisplayTitle()), o.textURL(r)))
				}
			}
			if len(items) == 0 {
				continue
			}
			doc.H2(cases(team.String())).LF()
			doc.BulletList(items...).LF()
		}
	}
	return doc.Build()
}

func (o *options) textURL(r *records.Record) string {
	return fmt.Sprintf("https://github.com/%s/blob/%s/text/%s", o.repo, o.branch, r.Filename)
}

func joinTeams(teams []records.Team) string {
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

func joinTags(tags []string) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = records.DisplayTag(t)
	}
	return strings.Join(names, ", ")
}

// cell escapes characters that would break a table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func cases(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + " team"
}

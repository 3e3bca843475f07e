// Package records defines the per-document metadata record and its versioned
// on-disk store.
package records

import (
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/rfcindex/pkg/constants"
)

// Record is the curated metadata of one document, keyed by Number.
// Teams and Tags behave as sets that remember first-insertion order.
type Record struct {
	Version     uint64   `json:"version"`
	Number      int      `json:"number"`
	Filename    string   `json:"filename"`
	StartDate   string   `json:"start_date"`
	MergeDate   *string  `json:"merge_date,omitempty"`
	FeatureName []string `json:"feature_name"`
	Issues      []string `json:"issues"`
	Title       *string  `json:"title,omitempty"`
	Teams       []Team   `json:"teams"`
	Tags        []string `json:"tags"`
}

// New creates a record at the current schema version with empty lists.
func New(number int, filename, startDate string) *Record {
	return &Record{
		Version:     constants.MetadataVersion,
		Number:      number,
		Filename:    filename,
		StartDate:   startDate,
		FeatureName: []string{},
		Issues:      []string{},
		Teams:       []Team{},
		Tags:        []string{},
	}
}

// DisplayTitle returns the title, or one derived from the filename when the
// record has none: "0050-foo-bar.md" becomes "Foo Bar".
func (r *Record) DisplayTitle() string {
	if r.Title != nil && strings.TrimSpace(*r.Title) != "" {
		return *r.Title
	}
	return TitleFromFilename(r.Filename)
}

// TitleFromFilename derives a human title from a document filename.
func TitleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.TrimLeft(name, "0123456789")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return cases.Title(language.English).String(name)
}

// HasTeam reports whether the record belongs to team.
func (r *Record) HasTeam(team Team) bool {
	return slices.Contains(r.Teams, team)
}

// HasTag reports whether the record carries tag.
func (r *Record) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// AddTeam appends team unless already present. It reports whether it changed the record.
func (r *Record) AddTeam(team Team) bool {
	if r.HasTeam(team) {
		return false
	}
	r.Teams = append(r.Teams, team)
	return true
}

// AddTag appends tag unless already present. It reports whether it changed the record.
func (r *Record) AddTag(tag string) bool {
	if r.HasTag(tag) {
		return false
	}
	r.Tags = append(r.Tags, tag)
	return true
}

// SetTeams replaces the teams, dropping duplicates after their first occurrence.
func (r *Record) SetTeams(teams []Team) {
	r.Teams = []Team{}
	for _, team := range teams {
		r.AddTeam(team)
	}
}

// SetTags replaces the tags, dropping duplicates after their first occurrence.
func (r *Record) SetTags(tags []string) {
	r.Tags = []string{}
	for _, tag := range tags {
		r.AddTag(tag)
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.FeatureName = slices.Clone(r.FeatureName)
	c.Issues = slices.Clone(r.Issues)
	c.Teams = slices.Clone(r.Teams)
	c.Tags = slices.Clone(r.Tags)
	if r.MergeDate != nil {
		d := *r.MergeDate
		c.MergeDate = &d
	}
	if r.Title != nil {
		t := *r.Title
		c.Title = &t
	}
	return &c
}

// DisplayTag returns the display form of a tag: a leading "A-" or "T-" is
// removed and the rest lowercased.
func DisplayTag(tag string) string {
	if len(tag) >= 2 && (strings.HasPrefix(tag, "A-") || strings.HasPrefix(tag, "T-")) {
		tag = tag[2:]
	}
	return strings.ToLower(tag)
}

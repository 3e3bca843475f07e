// Package tags holds the tag dictionary: which tags belong to which team.
package tags

import (
	"slices"
	"sort"

	"github.com/agentstation/rfcindex/pkg/records"
)

// Entry is one team's tag bucket, the unit of the on-disk dictionary.
type Entry struct {
	Team records.Team `json:"team"`
	Tags []string     `json:"tags"`
}

// Dictionary maps teams to their tags and tags back to their teams.
// ByTag is always the exact inverse of ByTeam.
type Dictionary struct {
	ByTeam map[records.Team][]string
	ByTag  map[string][]records.Team
}

// NewDictionary builds a dictionary from entries. Entries repeating a team
// are merged and duplicate tags within a team are dropped.
func NewDictionary(entries []Entry) *Dictionary {
	d := &Dictionary{
		ByTeam: make(map[records.Team][]string),
		ByTag:  make(map[string][]records.Team),
	}
	for _, e := range entries {
		for _, tag := range e.Tags {
			d.add(e.Team, tag)
		}
		if _, ok := d.ByTeam[e.Team]; !ok {
			d.ByTeam[e.Team] = []string{}
		}
	}
	return d
}

func (d *Dictionary) add(team records.Team, tag string) {
	if slices.Contains(d.ByTeam[team], tag) {
		return
	}
	d.ByTeam[team] = append(d.ByTeam[team], tag)
	d.ByTag[tag] = append(d.ByTag[tag], team)
}

// Known reports whether tag belongs to any team.
func (d *Dictionary) Known(tag string) bool {
	if d == nil {
		return false
	}
	_, ok := d.ByTag[tag]
	return ok
}

// TeamsFor returns the teams that own tag.
func (d *Dictionary) TeamsFor(tag string) []records.Team {
	if d == nil {
		return nil
	}
	return d.ByTag[tag]
}

// TagsFor returns the tags owned by team.
func (d *Dictionary) TagsFor(team records.Team) []string {
	if d == nil {
		return nil
	}
	return d.ByTeam[team]
}

// AllTags returns every known tag, sorted.
func (d *Dictionary) AllTags() []string {
	if d == nil {
		return []string{}
	}
	all := make([]string, 0, len(d.ByTag))
	for tag := range d.ByTag {
		all = append(all, tag)
	}
	sort.Strings(all)
	return all
}

// Entries returns one entry per team in team display order.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return []Entry{}
	}
	entries := make([]Entry, 0, len(d.ByTeam))
	for _, team := range records.Teams() {
		tags, ok := d.ByTeam[team]
		if !ok {
			continue
		}
		entries = append(entries, Entry{Team: team, Tags: slices.Clone(tags)})
	}
	return entries
}

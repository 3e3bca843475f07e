package records

import (
	"encoding/json"
	"strings"

	"github.com/agentstation/rfcindex/pkg/errors"
)

// Team is a team that owns documents. The set is closed; the string value is
// both the serialized form and the display form.
type Team string

// Known teams, in display order.
const (
	TeamLang     Team = "lang"
	TeamLibs     Team = "libs"
	TeamCore     Team = "core"
	TeamTools    Team = "tools"
	TeamCompiler Team = "compiler"
	TeamDocs     Team = "docs"
)

// teamLabelPrefix is the tracker's prefix for team labels, e.g. "T-lang".
const teamLabelPrefix = "t-"

// Teams returns every known team in display order.
func Teams() []Team {
	return []Team{TeamLang, TeamLibs, TeamCore, TeamTools, TeamCompiler, TeamDocs}
}

// String returns the display form of the team.
func (t Team) String() string {
	return string(t)
}

// Valid reports whether t is one of the known teams.
func (t Team) Valid() bool {
	for _, known := range Teams() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTeam parses a team name. It accepts the plain name in any case
// ("lang", "Lang") and the tracker label form ("T-lang").
func ParseTeam(s string) (Team, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, teamLabelPrefix)
	team := Team(name)
	if !team.Valid() {
		return "", errors.NewValidationError("team", s, "unknown team")
	}
	return team, nil
}

// UnmarshalJSON rejects team names outside the closed set.
func (t *Team) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	team := Team(s)
	if !team.Valid() {
		return errors.NewValidationError("team", s, "unknown team")
	}
	*t = team
	return nil
}

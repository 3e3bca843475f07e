package records

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentstation/rfcindex/pkg/constants"
)

// upgradeStep rewrites a decoded document from one version to the next.
type upgradeStep func(doc map[string]json.RawMessage) error

// upgrades maps a version to the step that lifts it to version+1.
var upgrades = map[uint64]upgradeStep{
	1: upgradeV1,
}

// upgrade runs every step from version up to the current one.
func upgrade(version uint64, data []byte) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for v := version; v < constants.MetadataVersion; v++ {
		step, ok := upgrades[v]
		if !ok {
			return nil, fmt.Errorf("no upgrade path from version %d", v)
		}
		if err := step(doc); err != nil {
			return nil, fmt.Errorf("upgrading from version %d: %w", v, err)
		}
		next, err := json.Marshal(v + 1)
		if err != nil {
			return nil, err
		}
		doc["version"] = next
	}
	return json.Marshal(doc)
}

// upgradeV1 lifts a version 1 document. Version 1 had no teams list; team
// membership lived in the tag list as {"Team": "Lang"} objects next to
// {"Topic": "..."} and {"Custom": "..."} tags. Cargo was a team of its own
// and is now part of Tools, the same team a "T-cargo" label classifies to.
func upgradeV1(doc map[string]json.RawMessage) error {
	var teams []Team
	var tags []string
	addTeam := func(name string) error {
		if strings.EqualFold(name, "cargo") {
			teams = appendUnique(teams, TeamTools)
			return nil
		}
		team, err := ParseTeam(name)
		if err != nil {
			return err
		}
		teams = appendUnique(teams, team)
		return nil
	}

	if raw, ok := doc["teams"]; ok && string(raw) != "null" {
		var names []string
		if err := json.Unmarshal(raw, &names); err != nil {
			return fmt.Errorf("teams: %w", err)
		}
		for _, name := range names {
			if err := addTeam(name); err != nil {
				return err
			}
		}
	}

	if raw, ok := doc["tags"]; ok && string(raw) != "null" {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("tags: %w", err)
		}
		for _, entry := range entries {
			var plain string
			if err := json.Unmarshal(entry, &plain); err == nil {
				tags = appendUnique(tags, plain)
				continue
			}
			var tagged map[string]string
			if err := json.Unmarshal(entry, &tagged); err != nil || len(tagged) != 1 {
				return fmt.Errorf("unrecognized tag %s", entry)
			}
			for kind, value := range tagged {
				switch kind {
				case "Team":
					if err := addTeam(value); err != nil {
						return err
					}
				case "Topic":
					tags = appendUnique(tags, "A-"+value)
				case "Custom":
					tags = appendUnique(tags, value)
				default:
					return fmt.Errorf("unrecognized tag kind %q", kind)
				}
			}
		}
	}

	if teams == nil {
		teams = []Team{}
	}
	if tags == nil {
		tags = []string{}
	}
	var err error
	if doc["teams"], err = json.Marshal(teams); err != nil {
		return err
	}
	if doc["tags"], err = json.Marshal(tags); err != nil {
		return err
	}
	for _, key := range []string{"feature_name", "issues"} {
		if raw, ok := doc[key]; !ok || string(raw) == "null" {
			doc[key] = json.RawMessage("[]")
		}
	}
	if _, ok := doc["start_date"]; !ok {
		doc["start_date"] = json.RawMessage(`""`)
	}
	return nil
}

func appendUnique[T comparable](list []T, v T) []T {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

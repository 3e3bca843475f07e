package labels

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/rfcindex/internal/matcher"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/records"
)

// Rule assigns a team to every label its matcher accepts.
type Rule struct {
	Matcher matcher.Matcher
	Team    records.Team
}

// Rules is an ordered rule table. The first matching rule decides a label's team.
type Rules []Rule

// TeamFor returns the team of the first rule matching label.
func (rs Rules) TeamFor(label string) (records.Team, bool) {
	for _, r := range rs {
		if r.Matcher.Match(label) {
			return r.Team, true
		}
	}
	return "", false
}

// defaultRuleSpecs is the built-in tracker label table.
var defaultRuleSpecs = []RuleSpec{
	{Pattern: "T-lang", Team: "lang"},
	{Pattern: "T-libs", Team: "libs"},
	{Pattern: "T-libs-api", Team: "libs"},
	{Pattern: "T-core", Team: "core"},
	{Pattern: "T-dev-tools", Team: "tools"},
	{Pattern: "T-tools", Team: "tools"},
	{Pattern: "T-cargo", Team: "tools"},
	{Pattern: "T-rustdoc", Team: "tools"},
	{Pattern: "T-compiler", Team: "compiler"},
	{Pattern: "T-doc", Team: "docs"},
	{Pattern: "T-docs", Team: "docs"},
}

// DefaultRules returns the built-in table. Label matching ignores case.
func DefaultRules() Rules {
	rules, err := compileRules(defaultRuleSpecs)
	if err != nil {
		panic(err)
	}
	return rules
}

// RuleSpec is the serialized form of a rule.
type RuleSpec struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Kind    string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Team    string `yaml:"team" json:"team"`
}

// RuleFile is the layout of a team rule YAML file:
//
//	rules:
//	  - pattern: T-lang
//	    team: lang
//	  - pattern: "^T-libs(-api)?$"
//	    kind: regex
//	    team: libs
type RuleFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// ParseRules decodes a YAML rule table.
func ParseRules(data []byte) (Rules, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapYAML("", err)
	}
	if len(file.Rules) == 0 {
		return nil, errors.NewValidationError("rules", nil, "rule table is empty")
	}
	return compileRules(file.Rules)
}

// LoadRules reads a YAML rule table from path.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		var serr *errors.SerializationError
		if errors.As(err, &serr) {
			serr.File = path
		}
		return nil, err
	}
	return rules, nil
}

func compileRules(specs []RuleSpec) (Rules, error) {
	rules := make(Rules, 0, len(specs))
	for _, spec := range specs {
		kind, err := matcher.ParseKind(spec.Kind)
		if err != nil {
			return nil, errors.NewValidationError("kind", spec.Kind, err.Error())
		}
		team, err := records.ParseTeam(spec.Team)
		if err != nil {
			return nil, err
		}
		m, err := matcher.New(kind, spec.Pattern, matcher.CaseInsensitive(), matcher.Anchored())
		if err != nil {
			return nil, errors.NewValidationError("pattern", spec.Pattern, err.Error())
		}
		rules = append(rules, Rule{Matcher: m, Team: team})
	}
	return rules, nil
}

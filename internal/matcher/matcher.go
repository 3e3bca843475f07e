// Package matcher matches labels and free text against glob or regex patterns.
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Kind is the pattern syntax.
type Kind int

const (
	// Glob uses shell-style patterns (*, ?, []).
	Glob Kind = iota
	// Regex uses regular expressions.
	Regex
	// Auto picks Regex when the pattern looks like one, Glob otherwise.
	Auto
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseKind parses "glob", "regex" or "auto". Empty means Auto.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "glob":
		return Glob, nil
	case "regex", "regexp":
		return Regex, nil
	default:
		return Auto, fmt.Errorf("unknown pattern kind %q", s)
	}
}

// Matcher tests strings against one compiled pattern. Matchers are immutable
// and safe for concurrent use.
type Matcher interface {
	Match(input string) bool
	Pattern() string
	Kind() Kind
}

type options struct {
	caseInsensitive bool
	anchored        bool
}

// Option configures a matcher.
type Option func(*options)

// CaseInsensitive makes matching ignore case.
func CaseInsensitive() Option {
	return func(o *options) { o.caseInsensitive = true }
}

// Anchored forces regex patterns to match the whole input.
func Anchored() Option {
	return func(o *options) { o.anchored = true }
}

type matcher struct {
	pattern  string
	kind     Kind
	glob     string
	compiled *regexp.Regexp
	fold     bool
}

// New compiles pattern as the given kind.
func New(kind Kind, pattern string, opts ...Option) (Matcher, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	m := &matcher{pattern: pattern, kind: kind, fold: o.caseInsensitive}
	if kind == Auto {
		m.kind = detectKind(pattern)
	}

	switch m.kind {
	case Glob:
		m.glob = pattern
		if m.fold {
			m.glob = strings.ToLower(pattern)
		}
		if _, err := path.Match(m.glob, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		expr := pattern
		if o.anchored {
			if !strings.HasPrefix(expr, "^") {
				expr = "^" + expr
			}
			if !strings.HasSuffix(expr, "$") {
				expr += "$"
			}
		}
		if m.fold && !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.compiled = compiled
	default:
		return nil, fmt.Errorf("unsupported pattern kind: %v", kind)
	}
	return m, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(kind Kind, pattern string, opts ...Option) Matcher {
	m, err := New(kind, pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *matcher) Match(input string) bool {
	if m.kind == Regex {
		return m.compiled.MatchString(input)
	}
	if m.fold {
		input = strings.ToLower(input)
	}
	ok, _ := path.Match(m.glob, input)
	return ok
}

func (m *matcher) Pattern() string { return m.pattern }

func (m *matcher) Kind() Kind { return m.kind }

// detectKind treats anything with regex-only syntax as a regex.
func detectKind(pattern string) Kind {
	for _, indicator := range []string{
		"^", "$", `\d`, `\w`, `\s`, "(?", "{", "}", "+", "|", "(", ")", ".*",
	} {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}

// Set matches when any of its matchers does.
type Set []Matcher

// NewSet compiles every pattern with the same kind and options.
func NewSet(kind Kind, patterns []string, opts ...Option) (Set, error) {
	set := make(Set, 0, len(patterns))
	for _, p := range patterns {
		m, err := New(kind, p, opts...)
		if err != nil {
			return nil, err
		}
		set = append(set, m)
	}
	return set, nil
}

// Match reports whether any matcher in the set matches input.
func (s Set) Match(input string) bool {
	for _, m := range s {
		if m.Match(input) {
			return true
		}
	}
	return false
}

// Filter returns the inputs matched by the set, preserving order.
func (s Set) Filter(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if s.Match(in) {
			out = append(out, in)
		}
	}
	return out
}

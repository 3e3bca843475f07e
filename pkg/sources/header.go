package sources

import (
	"bufio"
	"strings"

	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/tokens"
)

// Recognized header keys, lowercased.
const (
	keyStartDate      = "start date"
	keyFeatureName    = "feature name"
	keyRustIssue      = "rust issue"
	keyTrackingIssues = "tracking issues"
)

// Header holds the fields read from a document's leading bullet list:
//
//	- Feature Name: foo_bar
//	- Start Date: 2020-01-01
//	- RFC PR: rust-lang/rfcs#1234
//	- Rust Issue: rust-lang/rust#5678
type Header struct {
	StartDate   string
	FeatureName []string
	Issues      []string
}

// ScanHeader reads the header bullets at the top of text. Blank lines are
// skipped, the first other line that is not a "- " bullet ends the header, and
// the first occurrence of each recognized key wins. A bullet without a colon
// is a parse error.
func ScanHeader(text string) (Header, error) {
	h := Header{FeatureName: []string{}, Issues: []string{}}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "- ") {
			break
		}

		key, value, ok := strings.Cut(strings.TrimSpace(line[1:]), ":")
		if !ok {
			return Header{}, errors.NewParseError("header", line, "bullet has no key: value pair", nil)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		// Both issue keys fill the same field.
		field := key
		if key == keyTrackingIssues {
			field = keyRustIssue
		}
		if seen[field] {
			continue
		}

		switch field {
		case keyStartDate:
			h.StartDate = value
		case keyFeatureName:
			h.FeatureName = tokens.Parse(value)
		case keyRustIssue:
			h.Issues = tokens.Parse(value)
		default:
			continue
		}
		seen[field] = true
	}
	if err := scanner.Err(); err != nil {
		return Header{}, errors.NewParseError("header", "", "reading document", err)
	}
	return h, nil
}

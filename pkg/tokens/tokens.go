// Package tokens splits free-text metadata fields such as "foo, bar, and `baz`"
// into lists of tokens.
package tokens

import "strings"

// separatorWord is dropped from the output wherever it stands alone.
const separatorWord = "and"

// Parse splits s into tokens.
//
// Tokens are separated by spaces, newlines, carriage returns, commas,
// semicolons and slashes. A standalone "and" is a separator. A token that starts
// with a backtick or a quote runs verbatim to the matching closing character and
// the quotes are stripped. Parenthesised and bracketed groups run verbatim to
// their matching closer and keep their delimiters, so "[text](url)" is one token.
// An unterminated group swallows the rest of the input.
//
// The inputs "NA" and "N/A" (any case) mean "not applicable" and yield no tokens.
func Parse(s string) []string {
	s = strings.TrimSpace(s)
	if isNotApplicable(s) {
		return []string{}
	}

	p := parser{input: []rune(s), out: []string{}}
	p.run()
	return p.out
}

func isNotApplicable(s string) bool {
	upper := strings.ToUpper(s)
	return upper == "NA" || upper == "N/A"
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\n', '\r', ',', ';', '/':
		return true
	}
	return false
}

func isQuote(r rune) bool {
	return r == '`' || r == '"' || r == '\''
}

func closerFor(r rune) (rune, bool) {
	switch r {
	case '(':
		return ')', true
	case '[':
		return ']', true
	}
	return 0, false
}

type parser struct {
	input   []rune
	pos     int
	buf     strings.Builder
	quoted  bool
	// grouped is set while the token so far ends with a closed group.
	grouped bool
	out     []string
}

func (p *parser) run() {
	for p.pos < len(p.input) {
		r := p.input[p.pos]
		switch {
		case isSeparator(r):
			p.flush()
			p.pos++
		case isQuote(r) && p.buf.Len() == 0:
			p.readQuoted(r)
		default:
			if closer, ok := closerFor(r); ok && (p.buf.Len() == 0 || p.grouped) {
				p.readGroup(r, closer)
				continue
			}
			p.buf.WriteRune(r)
			p.grouped = false
			p.pos++
		}
	}
	p.flush()
}

// readQuoted consumes a quoted run starting at p.pos, dropping the quotes.
func (p *parser) readQuoted(quote rune) {
	p.pos++
	for p.pos < len(p.input) {
		r := p.input[p.pos]
		p.pos++
		if r == quote {
			p.quoted = true
			return
		}
		p.buf.WriteRune(r)
	}
	p.quoted = true
}

// readGroup consumes a bracketed run starting at p.pos, keeping the delimiters.
// Nested groups of the same kind are balanced.
func (p *parser) readGroup(open, closer rune) {
	depth := 0
	for p.pos < len(p.input) {
		r := p.input[p.pos]
		p.buf.WriteRune(r)
		p.pos++
		switch r {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				p.grouped = true
				return
			}
		}
	}
}

func (p *parser) flush() {
	token := p.buf.String()
	if token != "" && (p.quoted || token != separatorWord) {
		p.out = append(p.out, token)
	}
	p.buf.Reset()
	p.quoted = false
	p.grouped = false
}

package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rfcindex/pkg/records"
)

func TestWrite(t *testing.T) {
	title := "Pipes | Everywhere"
	a := records.New(50, "0050-foo-bar.md", "2020-01-01")
	a.Teams = []records.Team{records.TeamLang}
	a.Tags = []string{"A-traits"}
	b := records.New(7, "0007-baz.md", "2014-01-01")
	b.Title = &title
	b.Teams = []records.Team{records.TeamTools}

	var buf strings.Builder
	require.NoError(t, Write(&buf, []*records.Record{a, b}, WithTitle("Index"), WithRepository("me/rfcs", "main")))
	out := buf.String()

	assert.Contains(t, out, "# Index")
	assert.Contains(t, out, "2 documents.")
	assert.Contains(t, out, "[0050](https://github.com/me/rfcs/blob/main/text/0050-foo-bar.md)")
	assert.Contains(t, out, "Foo Bar")
	assert.Contains(t, out, "traits")
	assert.Contains(t, out, `Pipes \| Everywhere`)
	assert.Contains(t, out, "## Lang team")
	assert.Contains(t, out, "## Tools team")
	assert.NotContains(t, out, "## Docs team")
	assert.Less(t, strings.Index(out, "[0007]"), strings.Index(out, "[0050]"), "rows sorted by number")
}

func TestWriteWithoutTeamSections(t *testing.T) {
	r := records.New(1, "0001-x.md", "")
	r.Teams = []records.Team{records.TeamLang}

	var buf strings.Builder
	require.NoError(t, Write(&buf, []*records.Record{r}, WithTeamSections(false)))
	assert.Contains(t, buf.String(), "# "+DefaultTitle)
	assert.NotContains(t, buf.String(), "## Lang team")
}

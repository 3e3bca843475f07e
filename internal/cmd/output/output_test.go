package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rfcindex/pkg/query"
	"github.com/agentstation/rfcindex/pkg/records"
)

func sampleRecords() []*records.Record {
	a := records.New(50, "0050-foo-bar.md", "2020-01-01")
	a.Teams = []records.Team{records.TeamLang}
	a.Tags = []string{"A-traits"}
	title := "Custom Title"
	b := records.New(51, "0051-baz.md", "")
	b.Title = &title
	return []*records.Record{a, b}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestRecordsTable(t *testing.T) {
	data := Records(sampleRecords()).TableData(false)
	assert.Equal(t, []string{"RFC", "Title", "Teams", "Tags"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"50", "Foo Bar", "Lang", "A-traits"}, data.Rows[0])
	assert.Equal(t, []string{"51", "Custom Title", "-", "-"}, data.Rows[1])

	wide := Records(sampleRecords()).TableData(true)
	assert.Len(t, wide.Headers, 8)
	assert.Equal(t, "2020-01-01", wide.Rows[0][4])
	assert.Equal(t, "-", wide.Rows[1][4])
}

func TestTableFormatterRendersTabular(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, Records(sampleRecords())))
	out := buf.String()
	assert.Contains(t, out, "Foo Bar")
	assert.Contains(t, out, "Custom Title")
}

func TestJSONFormatterUnwraps(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, Records(sampleRecords())))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.EqualValues(t, 50, got[0]["number"])
	assert.Equal(t, "0050-foo-bar.md", got[0]["filename"])
}

func TestYAMLFormatterUnwraps(t *testing.T) {
	var buf bytes.Buffer
	rec := sampleRecords()[0]
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, Record{rec}))
	assert.Contains(t, buf.String(), "filename:")
	assert.Contains(t, buf.String(), "0050-foo-bar.md")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}", strings.TrimSpace(buf.String()))
}

func TestStatsTableTruncatesTags(t *testing.T) {
	s := query.Stats{Total: 2}
	for i := 0; i < 12; i++ {
		s.ByTag = append(s.ByTag, query.Count{Name: "A-x", Count: 1})
	}
	s.ByTeam = []query.Count{{Name: "lang", Count: 1}}

	narrow := Stats(s).TableData(false)
	wide := Stats(s).TableData(true)
	assert.Len(t, narrow.Rows, 5+1+10)
	assert.Len(t, wide.Rows, 5+1+12)
	assert.Equal(t, []string{"team", "Lang", "1"}, narrow.Rows[5])
}

func TestIssuesTable(t *testing.T) {
	data := Issues{{Number: 7, Kind: query.IssueMissingTitle, Message: "no title"}}.TableData(false)
	assert.Equal(t, [][]string{{"7", "missing-title", "no title"}}, data.Rows)
}

func TestTeamList(t *testing.T) {
	assert.Equal(t, "-", TeamList(nil))
	assert.Equal(t, "Lang, Compiler", TeamList([]records.Team{records.TeamLang, records.TeamCompiler}))
}

package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rfcindex/pkg/errors"
)

func TestParseTeam(t *testing.T) {
	tests := []struct {
		input   string
		want    Team
		wantErr bool
	}{
		{"lang", TeamLang, false},
		{"Lang", TeamLang, false},
		{"T-lang", TeamLang, false},
		{"t-compiler", TeamCompiler, false},
		{" docs ", TeamDocs, false},
		{"cargo", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTeam(tt.input)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTeamJSON(t *testing.T) {
	data, err := json.Marshal([]Team{TeamLang, TeamTools})
	require.NoError(t, err)
	assert.JSONEq(t, `["lang","tools"]`, string(data))

	var teams []Team
	require.NoError(t, json.Unmarshal([]byte(`["libs","core"]`), &teams))
	assert.Equal(t, []Team{TeamLibs, TeamCore}, teams)

	assert.Error(t, json.Unmarshal([]byte(`["Lang"]`), &teams))
	assert.Error(t, json.Unmarshal([]byte(`["marketing"]`), &teams))
}

func TestDisplayTitle(t *testing.T) {
	r := New(50, "0050-foo-bar.md", "2024-01-01")
	assert.Equal(t, "Foo Bar", r.DisplayTitle())

	title := "Explicit Title"
	r.Title = &title
	assert.Equal(t, "Explicit Title", r.DisplayTitle())

	blank := "  "
	r.Title = &blank
	assert.Equal(t, "Foo Bar", r.DisplayTitle())

	assert.Equal(t, "Const Generics", TitleFromFilename("2000-const_generics.md"))
}

func TestDisplayTag(t *testing.T) {
	assert.Equal(t, "traits", DisplayTag("A-traits"))
	assert.Equal(t, "cargo", DisplayTag("T-cargo"))
	assert.Equal(t, "custom", DisplayTag("Custom"))
	assert.Equal(t, "a-", DisplayTag("a-"))
}

func TestRecordSets(t *testing.T) {
	r := New(1, "0001-x.md", "")

	assert.True(t, r.AddTag("A-traits"))
	assert.False(t, r.AddTag("A-traits"))
	assert.True(t, r.AddTeam(TeamLang))
	assert.False(t, r.AddTeam(TeamLang))

	r.SetTags([]string{"b", "a", "b"})
	assert.Equal(t, []string{"b", "a"}, r.Tags)

	r.SetTeams([]Team{TeamDocs, TeamLang, TeamDocs})
	assert.Equal(t, []Team{TeamDocs, TeamLang}, r.Teams)
}

func TestClone(t *testing.T) {
	title := "T"
	r := New(1, "0001-x.md", "")
	r.Title = &title
	r.Tags = []string{"a"}

	c := r.Clone()
	c.Tags[0] = "changed"
	*c.Title = "changed"

	assert.Equal(t, "a", r.Tags[0])
	assert.Equal(t, "T", *r.Title)
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rfcindex"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/logging"
	"github.com/agentstation/rfcindex/pkg/reconciler"
	"github.com/agentstation/rfcindex/pkg/records"
	"github.com/agentstation/rfcindex/pkg/sources"
	"github.com/agentstation/rfcindex/pkg/tags"
)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "metadata")

	client, err := rfcindex.New(
		rfcindex.WithMetadataDir(dir),
		rfcindex.WithDocumentSource(sources.StaticDocuments{
			{Filename: "0050-foo.md", Text: "- Start Date: 2020-01-01\n- RFC PR: #1234\n"},
		}),
		rfcindex.WithLabelSource(sources.StaticLabels{50: {"T-lang", "A-traits"}}),
		rfcindex.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)

	app := &App{
		version: "dev",
		commit:  "abc123",
		config:  &Config{MetadataDir: dir, LogFormat: "json", LogOutput: "discard"},
		logger:  logging.NewNopLogger(),
		client:  client,
	}
	return app, dir
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := app.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeRecord(t *testing.T, out string) records.Record {
	t.Helper()
	var rec records.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec), out)
	return rec
}

func TestRecordCommands(t *testing.T) {
	app, _ := newTestApp(t)

	out, err := run(t, app, "add", "50", "0050-foo.md",
		"--start-date", "2020-01-01",
		"--teams", "lang",
		"--tags", "A-traits, A-closures",
		"--feature-name", "foo and bar",
		"-o", "json")
	require.NoError(t, err)
	rec := decodeRecord(t, out)
	assert.Equal(t, 50, rec.Number)
	assert.Equal(t, []records.Team{records.TeamLang}, rec.Teams)
	assert.Equal(t, []string{"A-traits", "A-closures"}, rec.Tags)
	assert.Equal(t, []string{"foo", "bar"}, rec.FeatureName)

	_, err = run(t, app, "add", "50", "0050-foo.md")
	assert.True(t, errors.IsAlreadyExists(err))

	out, err = run(t, app, "set", "50", "--title", "Foo", "--tags", "", "-o", "json")
	require.NoError(t, err)
	rec = decodeRecord(t, out)
	require.NotNil(t, rec.Title)
	assert.Equal(t, "Foo", *rec.Title)
	assert.Empty(t, rec.Tags)
	assert.Equal(t, []records.Team{records.TeamLang}, rec.Teams)

	out, err = run(t, app, "get", "50", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "Foo", *decodeRecord(t, out).Title)

	out, err = run(t, app, "delete", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted RFC 50")

	_, err = run(t, app, "get", "50")
	require.Error(t, err)
	assert.Equal(t, ExitMissingMetadata, ExitCode(err))
}

func TestInvalidArguments(t *testing.T) {
	app, _ := newTestApp(t)

	tests := [][]string{
		{"get", "abc"},
		{"get", "0"},
		{"add", "50", "0050-foo.md", "--teams", "marketing"},
		{"list", "--team", "marketing"},
		{"list", "-o", "xml"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := run(t, app, args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, ExitCode(err))
		})
	}
}

func TestScanAndReportCommands(t *testing.T) {
	app, dir := newTestApp(t)
	dict := tags.NewDictionary([]tags.Entry{{Team: records.TeamLang, Tags: []string{"A-traits"}}})
	require.NoError(t, tags.NewFileStore(dir).Write(dict))

	out, err := run(t, app, "scan", "-o", "json")
	require.NoError(t, err)
	var result reconciler.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, []int{50}, result.Created)

	out, err = run(t, app, "list", "--tag", "traits", "-o", "json")
	require.NoError(t, err)
	var recs []records.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs), out)
	require.Len(t, recs, 1)
	assert.Equal(t, "2020-01-01", recs[0].StartDate)

	out, err = run(t, app, "stats", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 1")

	_, err = run(t, app, "check")
	require.NoError(t, err)

	_, err = run(t, app, "check", "--complete")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	out, err = run(t, app, "index", "--title", "Test Index")
	require.NoError(t, err)
	assert.Contains(t, out, "# Test Index")

	indexPath := filepath.Join(t.TempDir(), "INDEX.md")
	_, err = run(t, app, "index", "--out", indexPath)
	require.NoError(t, err)
	assert.FileExists(t, indexPath)

	out, err = run(t, app, "tags", "show", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "A-traits")
}

func TestVersionCommand(t *testing.T) {
	app, _ := newTestApp(t)
	out, err := run(t, app, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rfcindex version dev")
	assert.Contains(t, out, "commit: abc123")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitMissingMetadata, ExitCode(&errors.MissingMetadataError{Number: 1}))
	assert.Equal(t, ExitFailure, ExitCode(&errors.TrackerError{Number: 1}))
}

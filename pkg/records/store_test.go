package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "metadata"))

	merged := "2015-01-01"
	r := New(50, "0050-foo.md", "2014-12-01")
	r.MergeDate = &merged
	r.FeatureName = []string{"foo"}
	r.Issues = []string{"#123"}
	r.Teams = []Team{TeamLang}
	r.Tags = []string{"A-traits"}

	require.NoError(t, store.Save(r))
	assert.FileExists(t, filepath.Join(store.Dir(), "0050.json"))

	got, err := store.Open(50)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	exists, err := store.Exists(50)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(51)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStoreSaveReplaces(t *testing.T) {
	store := NewFileStore(t.TempDir())

	r := New(7, "0007-x.md", "")
	require.NoError(t, store.Save(r))
	r.Tags = []string{"new"}
	require.NoError(t, store.Save(r))

	got, err := store.Open(7)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, got.Tags)
}

func TestFileStoreSaveValidation(t *testing.T) {
	store := NewFileStore(t.TempDir())
	assert.True(t, errors.IsValidationError(store.Save(nil)))
	assert.True(t, errors.IsValidationError(store.Save(New(0, "x.md", ""))))
}

func TestFileStoreOpenMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Open(9999)
	assert.True(t, errors.IsNotFound(err))
}

func TestFileStoreDelete(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save(New(3, "0003-x.md", "")))

	require.NoError(t, store.Delete(3))
	assert.True(t, errors.IsNotFound(store.Delete(3)))
}

func TestFileStoreNewerVersion(t *testing.T) {
	dir := t.TempDir()
	// The content fields are invalid for every known version; the version
	// check has to reject the file before they are looked at.
	writeFile(t, dir, "0050.json", `{"version": 99, "number": "x", "teams": ["marketing"], "extra": true}`)

	_, err := NewFileStore(dir).Open(50)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedVersion(err))

	var verr *errors.UnsupportedVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, uint64(99), verr.Version)
	assert.Equal(t, constants.MetadataVersion, verr.Supported)
}

func TestFileStoreMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":        `{`,
		"missing version": `{"number": 1, "filename": "0001-x.md"}`,
		"unknown field":   `{"version": 2, "number": 1, "filename": "0001-x.md", "bogus": true}`,
		"unknown team":    `{"version": 2, "number": 1, "filename": "0001-x.md", "teams": ["marketing"]}`,
		"missing number":  `{"version": 2, "filename": "0001-x.md"}`,
		"no upgrade path": `{"version": 0, "number": 1, "filename": "0001-x.md"}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "0001.json", content)
			_, err := NewFileStore(dir).Open(1)
			assert.ErrorIs(t, err, errors.ErrSerialization)
		})
	}
}

func TestFileStoreUpgradeV1(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0050.json", `{
		"version": 1,
		"number": 50,
		"filename": "0050-foo.md",
		"start_date": "2014-12-01",
		"feature_name": ["foo"],
		"issues": [],
		"tags": [
			{"Team": "Lang"},
			{"Team": "Cargo"},
			{"Topic": "traits"},
			{"Custom": "needs-review"},
			"plain"
		]
	}`)

	store := NewFileStore(dir)
	r, err := store.Open(50)
	require.NoError(t, err)

	assert.Equal(t, constants.MetadataVersion, r.Version)
	assert.Equal(t, []Team{TeamLang, TeamTools}, r.Teams)
	assert.Equal(t, []string{"A-traits", "needs-review", "plain"}, r.Tags)
	assert.Equal(t, []string{"foo"}, r.FeatureName)

	// Saving persists the upgraded shape.
	require.NoError(t, store.Save(r))
	data, err := os.ReadFile(store.Path(50))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 2`)
	assert.Contains(t, string(data), `"teams": [`)
}

func TestFileStoreAllAndNumbers(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	for _, n := range []int{12, 3, 7} {
		require.NoError(t, store.Save(New(n, "x.md", "")))
	}
	writeFile(t, dir, constants.TagDictionaryFilename, `[]`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0099.json"), 0o755))

	numbers, err := store.Numbers()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7, 12}, numbers)

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].Number)
	assert.Equal(t, 12, all[2].Number)
}

func TestFileStoreNonCanonicalName(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Save(New(7, "0007-x.md", "")))
	writeFile(t, dir, "50.json", `{"version": 2, "number": 50, "filename": "0050-foo.md"}`)
	writeFile(t, dir, "00007.json", `{"version": 2, "number": 7, "filename": "0007-x.md"}`)

	numbers, err := store.Numbers()
	require.NoError(t, err)
	assert.Equal(t, []int{7}, numbers)

	exists, err := store.Exists(50)
	require.NoError(t, err)
	assert.False(t, exists)

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 7, all[0].Number)
}

func TestFileStoreAllFailsFast(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Save(New(1, "0001-x.md", "")))
	writeFile(t, dir, "0002.json", `{"version": 99, "number": 2, "filename": "0002-y.md"}`)

	_, err := store.All()
	assert.True(t, errors.IsUnsupportedVersion(err))
}

func TestFileStoreMissingDir(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent"))
	numbers, err := store.Numbers()
	require.NoError(t, err)
	assert.Empty(t, numbers)
}

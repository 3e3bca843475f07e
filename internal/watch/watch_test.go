package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunDeliversBatch(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(50*time.Millisecond), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(changed []string) { batches <- changed })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	var seen []string
	deadline := time.After(5 * time.Second)
	for len(seen) < 2 {
		select {
		case batch := <-batches:
			seen = append(seen, batch...)
		case <-deadline:
			t.Fatalf("timed out waiting for changes, got %v", seen)
		}
	}
	assert.Contains(t, seen, filepath.Join(dir, "0001.json"))
	assert.Contains(t, seen, filepath.Join(dir, "0002.json"))
	assert.NotContains(t, seen, filepath.Join(dir, "notes.txt"))

	cancel()
	require.NoError(t, <-done)
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"))
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "watch", ioErr.Operation)
}

func TestIsRecordFile(t *testing.T) {
	assert.True(t, isRecordFile("/m/0050.json"))
	assert.True(t, isRecordFile("tags.json"))
	assert.False(t, isRecordFile("/m/0050.json123456"))
	assert.False(t, isRecordFile("/m/.0050.json"))
	assert.False(t, isRecordFile("README.md"))
}

package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSummary(t *testing.T) {
	r := NewResult(OperationScan)
	assert.False(t, r.HasChanges())

	r.Metadata.Processed = 3
	r.Created = append(r.Created, 1)
	r.Skipped = append(r.Skipped, 2, 3)
	r.warn("RFC %d: odd", 3)
	r.Finalize()

	assert.True(t, r.HasChanges())
	assert.Equal(t, "scan: 3 processed, 1 created, 0 updated, 2 skipped, 1 warnings", r.Summary())
	assert.False(t, r.Metadata.EndTime.Before(r.Metadata.StartTime))
}

package reconciler

import (
	"fmt"
	"time"
)

// Operation names a batch operation.
type Operation string

// Batch operations.
const (
	OperationScan     Operation = "scan"
	OperationTags     Operation = "update-tags"
	OperationInitTags Operation = "init-tags"
)

// Result is the outcome of a batch operation.
type Result struct {
	Operation Operation `json:"operation" yaml:"operation"`

	// Record numbers by outcome.
	Created []int `json:"created" yaml:"created"`
	Updated []int `json:"updated" yaml:"updated"`
	Skipped []int `json:"skipped" yaml:"skipped"`

	Warnings []string       `json:"warnings" yaml:"warnings"`
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata describes how the operation ran.
type ResultMetadata struct {
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Force     bool          `json:"force" yaml:"force"`
	All       bool          `json:"all" yaml:"all"`
	Processed int           `json:"processed" yaml:"processed"`
}

// NewResult creates an empty result for op.
func NewResult(op Operation) *Result {
	return &Result{
		Operation: op,
		Created:   []int{},
		Updated:   []int{},
		Skipped:   []int{},
		Warnings:  []string{},
		Metadata:  ResultMetadata{StartTime: time.Now()},
	}
}

// HasChanges reports whether any record was written.
func (r *Result) HasChanges() bool {
	return len(r.Created) > 0 || len(r.Updated) > 0
}

// Finalize records the end time.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

// Summary returns a one-line description of the result.
func (r *Result) Summary() string {
	s := fmt.Sprintf("%s: %d processed, %d created, %d updated, %d skipped",
		r.Operation, r.Metadata.Processed, len(r.Created), len(r.Updated), len(r.Skipped))
	if len(r.Warnings) > 0 {
		s += fmt.Sprintf(", %d warnings", len(r.Warnings))
	}
	return s
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Package sources defines the data providers the reconciliation engine reads
// from: the tracked documents of the source repository and the tracker's labels.
package sources

import (
	"context"
	"strconv"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
)

// Document is one tracked document as found in the source repository.
type Document struct {
	Filename string
	Text     string
}

// Number returns the document number encoded in the filename's leading digits.
func (d Document) Number() (int, error) {
	return ParseNumber(d.Filename)
}

// ParseNumber parses the fixed-width numeric prefix of a filename, e.g. 50 for "0050-foo.md".
func ParseNumber(filename string) (int, error) {
	width := constants.RecordNumberWidth
	if len(filename) < width {
		return 0, errors.NewParseError("filename", filename, "shorter than the number prefix", nil)
	}
	n, err := strconv.Atoi(filename[:width])
	if err != nil || n <= 0 {
		return 0, errors.NewParseError("filename", filename, "does not start with a document number", err)
	}
	return n, nil
}

// DocumentSource lists every tracked document.
type DocumentSource interface {
	Documents(ctx context.Context) ([]Document, error)
}

// LabelSource fetches the tracker labels of one document. A nil slice with a
// nil error means the tracker has no label data for the document.
type LabelSource interface {
	Labels(ctx context.Context, number int) ([]string, error)
}

// StaticDocuments is a DocumentSource over a fixed list.
type StaticDocuments []Document

// Documents implements DocumentSource.
func (s StaticDocuments) Documents(context.Context) ([]Document, error) {
	return append([]Document(nil), s...), nil
}

// StaticLabels is a LabelSource over a fixed map. Numbers absent from the map
// have no label data.
type StaticLabels map[int][]string

// Labels implements LabelSource.
func (s StaticLabels) Labels(_ context.Context, number int) ([]string, error) {
	labels, ok := s[number]
	if !ok {
		return nil, &errors.TrackerError{Tracker: "static", Number: number, Message: "no label data"}
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

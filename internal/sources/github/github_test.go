package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
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

func newTestSource(t *testing.T, handler http.HandlerFunc, opts ...Option) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	opts = append([]Option{WithBaseURL(srv.URL), WithLogger(logging.NewNopLogger())}, opts...)
	s := New("rust-lang/rfcs", "tok", opts...)
	t.Cleanup(func() {
		s.Close()
		srv.Close()
	})
	return s
}

func TestLabels(t *testing.T) {
	var path, auth string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[{"name": "T-lang"}, {"name": "A-traits"}]`))
	})

	labels, err := s.Labels(context.Background(), 1234)
	require.NoError(t, err)
	assert.Equal(t, []string{"T-lang", "A-traits"}, labels)
	assert.Equal(t, "/repos/rust-lang/rfcs/issues/1234/labels", path)
	assert.Equal(t, "Bearer tok", auth)
}

func TestLabelsEmpty(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	labels, err := s.Labels(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, labels)
	assert.Empty(t, labels)
}

func TestLabelsPagination(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		n := perPage
		if r.URL.Query().Get("page") == "2" {
			n = 1
		}
		batch := make([]label, n)
		for i := range batch {
			batch[i] = label{Name: fmt.Sprintf("L-%s-%d", r.URL.Query().Get("page"), i)}
		}
		_ = json.NewEncoder(w).Encode(batch)
	})

	labels, err := s.Labels(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, labels, perPage+1)
	assert.Equal(t, "L-2-0", labels[perPage])
}

func TestLabelsNotFound(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})

	_, err := s.Labels(context.Background(), 99999)
	require.Error(t, err)
	assert.True(t, errors.IsTracker(err))

	var terr *errors.TrackerError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusNotFound, terr.StatusCode)
	assert.Equal(t, 99999, terr.Number)
}

func TestLabelsMalformed(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	})

	_, err := s.Labels(context.Background(), 1)
	assert.True(t, errors.IsTracker(err))
}

func TestLabelsTimeout(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := s.Labels(context.Background(), 1)
	assert.True(t, errors.IsTracker(err))
	assert.Less(t, time.Since(start), time.Second)
}

// Package github fetches document labels from the GitHub REST API.
//
// Each document is identified by its pull request number, so the labels of
// document 50 are the labels of pull request #50 in the configured repository.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/internal/transport"
	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/logging"
)

// trackerName identifies this source in errors.
const trackerName = "github"

// perPage is the page size requested from the labels endpoint.
const perPage = 100

// maxPages bounds pagination against a misbehaving server.
const maxPages = 10

// apiVersion pins the REST API version.
const apiVersion = "2022-11-28"

type label struct {
	Name string `json:"name"`
}

// Source is a LabelSource backed by the GitHub issues API.
type Source struct {
	client  *transport.Client
	baseURL string
	repo    string
	timeout time.Duration
	logger  *zerolog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithBaseURL points the source at another API host, e.g. GitHub Enterprise or a test server.
func WithBaseURL(url string) Option {
	return func(s *Source) {
		if url != "" {
			s.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClient replaces the transport client.
func WithClient(c *transport.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a source for repo ("owner/name"). An empty token makes
// unauthenticated requests, which GitHub rate-limits heavily.
func New(repo, token string, opts ...Option) *Source {
	s := &Source{
		baseURL: constants.DefaultGitHubAPIURL,
		repo:    repo,
		timeout: constants.LabelFetchTimeout,
		logger:  logging.Default(),
	}
	s.client = transport.New(transport.AuthFor(token), token,
		transport.WithHeader("Accept", "application/vnd.github+json"),
		transport.WithHeader("X-GitHub-Api-Version", apiVersion),
	)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Labels returns the label names of pull request number. It fails with a
// tracker error when the pull request does not exist or the API is unavailable.
func (s *Source) Labels(ctx context.Context, number int) ([]string, error) {
	names := []string{}
	for page := 1; page <= maxPages; page++ {
		batch, err := s.fetchPage(ctx, number, page)
		if err != nil {
			return nil, err
		}
		for _, l := range batch {
			names = append(names, l.Name)
		}
		if len(batch) < perPage {
			break
		}
	}
	s.logger.Debug().Int("number", number).Strs("labels", names).Msg("Fetched labels")
	return names, nil
}

func (s *Source) fetchPage(ctx context.Context, number, page int) ([]label, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/issues/%d/labels?per_page=%d&page=%d", s.baseURL, s.repo, number, perPage, page)
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, &errors.TrackerError{Tracker: trackerName, Number: number, Message: "request failed", Err: err}
	}

	var labels []label
	if err := transport.DecodeResponse(resp, &labels); err != nil {
		var serr *transport.StatusError
		if errors.As(err, &serr) {
			msg := "request rejected"
			if serr.StatusCode == http.StatusNotFound {
				msg = "no such pull request"
			}
			return nil, &errors.TrackerError{Tracker: trackerName, Number: number, StatusCode: serr.StatusCode, Message: msg, Err: err}
		}
		return nil, &errors.TrackerError{Tracker: trackerName, Number: number, Message: "malformed response", Err: err}
	}
	return labels, nil
}

// Close releases idle connections.
func (s *Source) Close() {
	s.client.CloseIdleConnections()
}

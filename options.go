package rfcindex

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/labels"
	"github.com/agentstation/rfcindex/pkg/sources"
)

// Option configures a Client.
type Option func(*config) error

type config struct {
	metadataDir string
	workDir     string
	textDir     string
	repoURL     string
	repoBranch  string
	offline     bool

	githubRepo   string
	githubAPIURL string
	githubToken  string

	teamRulesFile string
	rules         labels.Rules
	labelTimeout  time.Duration

	// Overrides for the git and GitHub collaborators.
	documents sources.DocumentSource
	labels    sources.LabelSource

	logger *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		metadataDir:  constants.DefaultMetadataDir,
		workDir:      constants.DefaultWorkDir,
		textDir:      constants.DefaultTextDir,
		repoURL:      constants.DefaultRepoURL,
		repoBranch:   constants.DefaultRepoBranch,
		githubRepo:   constants.DefaultGitHubRepo,
		githubAPIURL: constants.DefaultGitHubAPIURL,
		labelTimeout: constants.LabelFetchTimeout,
	}
}

// WithMetadataDir sets the directory holding record files and the tag dictionary.
func WithMetadataDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewValidationError("metadata dir", dir, "cannot be empty")
		}
		c.metadataDir = dir
		return nil
	}
}

// WithWorkDir sets the working copy of the source repository.
func WithWorkDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewValidationError("work dir", dir, "cannot be empty")
		}
		c.workDir = dir
		return nil
	}
}

// WithTextDir sets the document directory inside the working copy.
func WithTextDir(dir string) Option {
	return func(c *config) error {
		c.textDir = dir
		return nil
	}
}

// WithRepository sets the source repository clone URL and branch.
func WithRepository(url, branch string) Option {
	return func(c *config) error {
		if url != "" {
			c.repoURL = url
		}
		if branch != "" {
			c.repoBranch = branch
		}
		return nil
	}
}

// WithOffline skips the clone-then-pull step and reads the working copy as is.
func WithOffline(offline bool) Option {
	return func(c *config) error {
		c.offline = offline
		return nil
	}
}

// WithGitHub sets the owner/name repository whose pull request labels are read
// and the API base URL. Empty values keep the defaults.
func WithGitHub(repo, apiURL string) Option {
	return func(c *config) error {
		if repo != "" {
			c.githubRepo = repo
		}
		if apiURL != "" {
			c.githubAPIURL = apiURL
		}
		return nil
	}
}

// WithGitHubToken authenticates tracker requests.
func WithGitHubToken(token string) Option {
	return func(c *config) error {
		c.githubToken = token
		return nil
	}
}

// WithTeamRulesFile replaces the built-in label to team table with a YAML file.
func WithTeamRulesFile(path string) Option {
	return func(c *config) error {
		c.teamRulesFile = path
		return nil
	}
}

// WithTeamRules replaces the built-in label to team table.
func WithTeamRules(rules labels.Rules) Option {
	return func(c *config) error {
		if len(rules) == 0 {
			return errors.NewValidationError("team rules", len(rules), "cannot be empty")
		}
		c.rules = rules
		return nil
	}
}

// WithLabelTimeout bounds each tracker request.
func WithLabelTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.NewValidationError("label timeout", d, "must be positive")
		}
		c.labelTimeout = d
		return nil
	}
}

// WithDocumentSource replaces the git working copy as the document source.
func WithDocumentSource(src sources.DocumentSource) Option {
	return func(c *config) error {
		if src == nil {
			return errors.NewValidationError("document source", nil, "cannot be nil")
		}
		c.documents = src
		return nil
	}
}

// WithLabelSource replaces the GitHub tracker as the label source.
func WithLabelSource(src sources.LabelSource) Option {
	return func(c *config) error {
		if src == nil {
			return errors.NewValidationError("label source", nil, "cannot be nil")
		}
		c.labels = src
		return nil
	}
}

// WithLogger sets the logger used by every component.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

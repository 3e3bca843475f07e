package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Metadata and source repository
	MetadataDir string
	WorkDir     string
	TextDir     string
	RepoURL     string
	RepoBranch  string
	Offline     bool

	// Label tracker
	GitHubRepo   string
	GitHubAPIURL string
	GitHubToken  string
	LabelTimeout time.Duration

	// TeamRules optionally replaces the built-in label to team table.
	TeamRules string

	// Logging configuration. LogLevel comes from LOG_LEVEL or the config
	// file; LogLevelFlag from --log-level.
	LogLevel     string
	LogLevelFlag string
	LogFormat    string
	LogOutput    string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.rfcindex.yaml or ./.rfcindex.yaml)
//  5. Defaults
//
// The CONFIG environment variable names an explicit config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file, which must exist.
func LoadConfigFile(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapIO("read", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".rfcindex")
		// A missing config file is fine.
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		MetadataDir: v.GetString("metadata_dir"),
		WorkDir:     v.GetString("work_dir"),
		TextDir:     v.GetString("text_dir"),
		RepoURL:     v.GetString("repo_url"),
		RepoBranch:  v.GetString("repo_branch"),
		Offline:     v.GetBool("offline"),

		GitHubRepo:   v.GetString("github_repo"),
		GitHubAPIURL: v.GetString("github_api_url"),
		GitHubToken:  v.GetString("GITHUB_TOKEN"),
		LabelTimeout: v.GetDuration("label_timeout"),

		TeamRules: v.GetString("team_rules"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		LogOutput: v.GetString("LOG_OUTPUT"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("metadata_dir", constants.DefaultMetadataDir)
	v.SetDefault("work_dir", constants.DefaultWorkDir)
	v.SetDefault("text_dir", constants.DefaultTextDir)
	v.SetDefault("repo_url", constants.DefaultRepoURL)
	v.SetDefault("repo_branch", constants.DefaultRepoBranch)
	v.SetDefault("github_repo", constants.DefaultGitHubRepo)
	v.SetDefault("github_api_url", constants.DefaultGitHubAPIURL)
	v.SetDefault("label_timeout", constants.LabelFetchTimeout)
	v.SetDefault("LOG_FORMAT", "auto")
	v.SetDefault("LOG_OUTPUT", "stderr")
}

// UpdateFromFlags applies parsed command flags, which take precedence over
// the config file and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	c.LogLevelFlag = logLevel
}

// loadEnvFiles loads .env then .env.local. Variables already set in the
// environment are never overwritten.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

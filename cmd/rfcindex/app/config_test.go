package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadConfigDefaults verifies defaults apply when nothing is configured.
func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.MetadataDir != "metadata" {
		t.Errorf("MetadataDir = %q, want metadata", config.MetadataDir)
	}
	if config.RepoBranch != "master" {
		t.Errorf("RepoBranch = %q, want master", config.RepoBranch)
	}
	if config.GitHubRepo != "rust-lang/rfcs" {
		t.Errorf("GitHubRepo = %q, want rust-lang/rfcs", config.GitHubRepo)
	}
	if config.LabelTimeout != 30*time.Second {
		t.Errorf("LabelTimeout = %v, want 30s", config.LabelTimeout)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestConfigEnvironmentVariables verifies environment variable loading.
func TestConfigEnvironmentVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("METADATA_DIR", "/tmp/meta")
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("LABEL_TIMEOUT", "5s")
	t.Setenv("OFFLINE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.MetadataDir != "/tmp/meta" {
		t.Errorf("MetadataDir = %q, want /tmp/meta", config.MetadataDir)
	}
	if config.GitHubToken != "secret" {
		t.Errorf("GitHubToken = %q, want secret", config.GitHubToken)
	}
	if config.LabelTimeout != 5*time.Second {
		t.Errorf("LabelTimeout = %v, want 5s", config.LabelTimeout)
	}
	if !config.Offline {
		t.Error("OFFLINE not loaded")
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", config.LogLevel)
	}
}

// TestConfigFile verifies an explicit config file is read and env still wins.
func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	content := "metadata_dir: from-file\nrepo_branch: main\nteam_rules: teams.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REPO_BRANCH", "from-env")

	config, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}
	if config.MetadataDir != "from-file" {
		t.Errorf("MetadataDir = %q, want from-file", config.MetadataDir)
	}
	if config.RepoBranch != "from-env" {
		t.Errorf("RepoBranch = %q, want from-env", config.RepoBranch)
	}
	if config.TeamRules != "teams.yaml" {
		t.Errorf("TeamRules = %q, want teams.yaml", config.TeamRules)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}

	if _, err := LoadConfigFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadConfigFile() with a missing file succeeded")
	}
}

// TestConfigDotEnv verifies .env files in the working directory are loaded.
func TestConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_REPO=example/rfcs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable process-wide; register cleanup first.
	t.Setenv("GITHUB_REPO", "")
	os.Unsetenv("GITHUB_REPO")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.GitHubRepo != "example/rfcs" {
		t.Errorf("GitHubRepo = %q, want example/rfcs", config.GitHubRepo)
	}
}

// TestUpdateFromFlags verifies flags override loaded values.
func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json", LogLevel: "error"}
	config.UpdateFromFlags(true, false, true, "", "trace")

	if !config.Verbose || config.Quiet || !config.NoColor {
		t.Errorf("flags not applied: %+v", config)
	}
	if config.Format != "json" {
		t.Errorf("Format = %q, want json to be kept", config.Format)
	}
	if config.LogLevelFlag != "trace" || config.LogLevel != "error" {
		t.Errorf("LogLevelFlag = %q, LogLevel = %q", config.LogLevelFlag, config.LogLevel)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q) failed: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("Chdir(%q) failed: %v", prev, err)
		}
	})
}

package app

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/rfcindex/cmd/rfcindex/cmd/record"
	"github.com/agentstation/rfcindex/cmd/rfcindex/cmd/report"
	"github.com/agentstation/rfcindex/cmd/rfcindex/cmd/scan"
	"github.com/agentstation/rfcindex/cmd/rfcindex/cmd/tags"
	"github.com/agentstation/rfcindex/pkg/errors"
)

// Exit codes.
const (
	ExitFailure         = 1
	ExitMissingMetadata = 2
)

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "rfcindex",
		Short:   "Maintain metadata records for the RFC repository",
		Version: a.version,
		Long: `rfcindex keeps one JSON metadata record per RFC: its start and merge dates,
feature names, tracking issues, owning teams and topic tags.

Records are created from the headers of the RFC documents and the labels of
their pull requests, edited by hand, audited for mistakes and rendered into a
markdown index.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "management", Title: "Management Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.rfcindex.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("offline", false, "use the working copy as is instead of pulling it")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("metadata-dir", "", "directory holding the metadata records")

	rootCmd.SetVersionTemplate("rfcindex {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand applies flags on top of the loaded configuration before any
// command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if configFile := mustGetString(cmd, "config"); configFile != "" {
		config, err := LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)
	if cmd.Flags().Changed("offline") {
		a.config.Offline = mustGetBool(cmd, "offline")
	}
	if dir := mustGetString(cmd, "metadata-dir"); dir != "" {
		a.config.MetadataDir = dir
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	for _, cmd := range record.NewCommands(a) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(scan.NewCommand(a))
	rootCmd.AddCommand(tags.NewCommand(a))
	for _, cmd := range report.NewCommands(a) {
		rootCmd.AddCommand(cmd)
	}

	// Management commands
	rootCmd.AddCommand(scan.NewSyncCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "rfcindex version %s\n", a.version)
			_, _ = fmt.Fprintf(w, "commit: %s\n", a.commit)
			_, _ = fmt.Fprintf(w, "built: %s\n", a.date)
			_, _ = fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			_, _ = fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if errors.IsMissingMetadata(err) {
		return ExitMissingMetadata
	}
	return ExitFailure
}

// ExitOnError prints err and exits with ExitCode(err). It does nothing for nil.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	os.Exit(ExitCode(err))
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

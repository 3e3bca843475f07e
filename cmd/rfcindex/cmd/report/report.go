// Package report implements the read-only commands over stored records.
package report

import (
	"bytes"
	"fmt"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/agentstation/rfcindex/cmd/application"
	"github.com/agentstation/rfcindex/internal/cmd/cmdutil"
	"github.com/agentstation/rfcindex/internal/cmd/output"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/index"
	"github.com/agentstation/rfcindex/pkg/query"
	"github.com/agentstation/rfcindex/pkg/records"
)

// NewCommands returns the list, stats, check and index commands.
func NewCommands(app application.Application) []*cobra.Command {
	return []*cobra.Command{
		NewListCommand(app),
		NewStatsCommand(app),
		NewCheckCommand(app),
		NewIndexCommand(app),
	}
}

// NewListCommand creates the list command.
func NewListCommand(app application.Application) *cobra.Command {
	var (
		filter query.Filter
		team   string
	)
	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Short:   "List records",
		Args:    cobra.NoArgs,
		Example: `  rfcindex list --team lang
  rfcindex list --tag traits
  rfcindex list --search closure
  rfcindex list --search '^RFC.*async' --format wide
  rfcindex list --missing-tags`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if team != "" {
				t, err := records.ParseTeam(team)
				if err != nil {
					return err
				}
				filter.Team = t
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			recs, err := client.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, output.Records(recs))
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "only records owned by team")
	cmd.Flags().StringVar(&filter.Tag, "tag", "", "only records with tag (A-traits or traits)")
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "substring, glob or regex matched against title and filename")
	cmd.Flags().BoolVar(&filter.MissingTitle, "missing-title", false, "only records without a title")
	cmd.Flags().BoolVar(&filter.MissingTeams, "missing-teams", false, "only records without teams")
	cmd.Flags().BoolVar(&filter.MissingTags, "missing-tags", false, "only records without tags")
	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		GroupID: "core",
		Short:   "Count records by team and tag",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, output.Stats(stats))
		},
	}
}

// NewCheckCommand creates the check command. It fails when any issue is found,
// except in watch mode where it reports until interrupted.
func NewCheckCommand(app application.Application) *cobra.Command {
	var (
		opts  query.CheckOptions
		watch bool
	)
	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "management",
		Short:   "Audit records for mismatches, typos and missing fields",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if watch {
				logger := app.Logger()
				return client.Watch(cmd.Context(), opts, func(issues []query.Issue, err error) {
					if err != nil {
						logger.Error().Err(err).Msg("Audit failed")
						return
					}
					if err := cmdutil.Print(cmd, app, output.Issues(issues)); err != nil {
						logger.Error().Err(err).Msg("Failed to print audit")
					}
				})
			}

			issues, err := client.Check(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := cmdutil.Print(cmd, app, output.Issues(issues)); err != nil {
				return err
			}
			if len(issues) > 0 {
				return &errors.ValidationError{Message: fmt.Sprintf("%d issues found", len(issues))}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Completeness, "complete", false, "also report missing titles, teams and tags")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run whenever the metadata directory changes")
	return cmd
}

// NewIndexCommand creates the index command.
func NewIndexCommand(app application.Application) *cobra.Command {
	var (
		out     string
		title   string
		noTeams bool
	)
	cmd := &cobra.Command{
		Use:     "index",
		GroupID: "management",
		Short:   "Render a markdown index of every record",
		Args:    cobra.NoArgs,
		Example: `  rfcindex index > INDEX.md
  rfcindex index --out docs/INDEX.md --title "Rust RFCs"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			opts := []index.Option{index.WithTitle(title), index.WithTeamSections(!noTeams)}
			if out == "" {
				return client.WriteIndex(cmd.Context(), cmd.OutOrStdout(), opts...)
			}

			var buf bytes.Buffer
			if err := client.WriteIndex(cmd.Context(), &buf, opts...); err != nil {
				return err
			}
			if err := atomic.WriteFile(out, &buf); err != nil {
				return errors.WrapIO("write", out, err)
			}
			app.Logger().Info().Str("path", out).Msg("Index written")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&title, "title", index.DefaultTitle, "page heading")
	cmd.Flags().BoolVar(&noTeams, "no-teams", false, "omit the per-team sections")
	return cmd
}

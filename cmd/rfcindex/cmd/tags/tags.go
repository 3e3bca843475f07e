// Package tags implements the tag and tag dictionary commands.
package tags

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rfcindex/cmd/application"
	"github.com/agentstation/rfcindex/internal/cmd/cmdutil"
	"github.com/agentstation/rfcindex/internal/cmd/output"
	"github.com/agentstation/rfcindex/pkg/reconciler"
)

// NewCommand creates the tags command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		GroupID: "core",
		Short:   "Manage record tags and the tag dictionary",
		Example: `  rfcindex tags update 50 51 --tag A-traits
  rfcindex tags update --scan
  rfcindex tags init
  rfcindex tags show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newUpdateCommand(app))
	cmd.AddCommand(newInitCommand(app))
	cmd.AddCommand(newShowCommand(app))
	return cmd
}

func newUpdateCommand(app application.Application) *cobra.Command {
	var (
		tag      string
		scan     bool
		override bool
	)
	cmd := &cobra.Command{
		Use:   "update [number...]",
		Short: "Add a tag, or tracker teams and tags, to records",
		Long: `Update adds an explicit tag to the given records, or to every record when
no number is given. With --scan, teams and tags are also derived from the pull
request labels, but only for records whose teams and tags are both empty;
--all overwrites them on every record.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, err := cmdutil.ParseNumbers(args)
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			result, err := client.UpdateTags(cmd.Context(), reconciler.TagParams{
				Numbers: numbers,
				Tag:     tag,
				Scan:    scan,
				All:     override,
			})
			if err != nil {
				return err
			}
			app.Logger().Info().Msg(result.Summary())
			return cmdutil.Print(cmd, app, output.Result{Result: result})
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "tag to add")
	cmd.Flags().BoolVar(&scan, "scan", false, "derive teams and tags from tracker labels")
	cmd.Flags().BoolVar(&override, "all", false, "with --scan, overwrite non-empty teams and tags")
	return cmd
}

func newInitCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Rebuild the tag dictionary from the labels of every RFC",
		Long: `Init fetches the pull request labels of every document in the working copy
and files each A- and T- label under the single team the pull request belongs
to. Pull requests with no team or with several teams are skipped. The existing
dictionary is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			result, err := client.InitDictionary(cmd.Context())
			if err != nil {
				return err
			}
			app.Logger().Info().Msg(result.Summary())
			return cmdutil.Print(cmd, app, output.Result{Result: result})
		},
	}
}

func newShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"list"},
		Short:   "Show the tag dictionary",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			dict, err := client.Dictionary(cmd.Context())
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, output.Dictionary{Dictionary: dict})
		},
	}
}

// Package scan implements the commands that read the source repository.
package scan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/rfcindex/cmd/application"
	"github.com/agentstation/rfcindex/internal/cmd/cmdutil"
	"github.com/agentstation/rfcindex/internal/cmd/output"
)

// NewCommand creates the scan command.
func NewCommand(app application.Application) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "scan",
		GroupID: "core",
		Short:   "Create records for merged RFCs from their headers and PR labels",
		Long: `Scan brings the working copy of the RFC repository up to date, then
creates a metadata record for every RFC document that does not have one yet.

Start date, feature names and tracking issues come from the document header;
teams and tags come from the labels of the RFC's pull request. Existing records
are left alone unless --force is given, in which case they are rebuilt while
keeping their title and merge date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			result, err := client.Scan(cmd.Context(), force)
			if err != nil {
				return err
			}
			app.Logger().Info().Msg(result.Summary())
			return cmdutil.Print(cmd, app, output.Result{Result: result})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "rebuild records that already exist")
	return cmd
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		GroupID: "management",
		Short:   "Clone or pull the working copy of the RFC repository",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := client.Sync(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Working copy is up to date")
			return err
		},
	}
}

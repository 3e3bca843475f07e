// Package record implements the commands that edit single metadata records.
package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/rfcindex/cmd/application"
	"github.com/agentstation/rfcindex/internal/cmd/cmdutil"
	"github.com/agentstation/rfcindex/internal/cmd/output"
	"github.com/agentstation/rfcindex/pkg/reconciler"
)

// fieldFlags are the record fields settable from the command line.
type fieldFlags struct {
	startDate   string
	mergeDate   string
	title       string
	featureName string
	issues      string
	teams       string
	tags        string
}

func addFieldFlags(cmd *cobra.Command, f *fieldFlags) {
	cmd.Flags().StringVar(&f.startDate, "start-date", "", "start date, e.g. 2020-01-01")
	cmd.Flags().StringVar(&f.mergeDate, "merge-date", "", "merge date (empty clears it)")
	cmd.Flags().StringVar(&f.title, "title", "", "title (empty clears it)")
	cmd.Flags().StringVar(&f.featureName, "feature-name", "", "feature names, separated by commas, spaces or 'and'")
	cmd.Flags().StringVar(&f.issues, "issues", "", "tracking issues, separated like feature names")
	cmd.Flags().StringVar(&f.teams, "teams", "", "owning teams, e.g. 'lang, compiler'")
	cmd.Flags().StringVar(&f.tags, "tags", "", "tags, e.g. 'A-traits A-closures'")
}

// NewCommands returns the add, set, get and delete commands.
func NewCommands(app application.Application) []*cobra.Command {
	return []*cobra.Command{
		NewAddCommand(app),
		NewSetCommand(app),
		NewGetCommand(app),
		NewDeleteCommand(app),
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(app application.Application) *cobra.Command {
	var (
		fields fieldFlags
		force  bool
	)
	cmd := &cobra.Command{
		Use:     "add <number> <filename>",
		GroupID: "core",
		Short:   "Create the metadata record of one RFC",
		Args:    cobra.ExactArgs(2),
		Example: `  rfcindex add 50 0050-foo.md --start-date 2020-01-01 --teams lang
  rfcindex add 50 0050-foo.md --tags "A-traits" --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := cmdutil.ParseNumber(args[0])
			if err != nil {
				return err
			}
			teams, err := cmdutil.ParseTeams(fields.teams)
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			rec, err := client.Add(cmd.Context(), reconciler.AddParams{
				Number:      number,
				Filename:    args[1],
				StartDate:   fields.startDate,
				MergeDate:   nonEmpty(fields.mergeDate),
				Title:       nonEmpty(fields.title),
				FeatureName: cmdutil.ParseList(fields.featureName),
				Issues:      cmdutil.ParseList(fields.issues),
				Teams:       teams,
				Tags:        cmdutil.ParseList(fields.tags),
				Force:       force,
			})
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, output.Record{Record: rec})
		},
	}
	addFieldFlags(cmd, &fields)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing record")
	return cmd
}

// NewSetCommand creates the set command. Only flags given on the command line
// are written.
func NewSetCommand(app application.Application) *cobra.Command {
	var fields fieldFlags
	cmd := &cobra.Command{
		Use:     "set <number>",
		GroupID: "core",
		Short:   "Overwrite fields of an existing record",
		Args:    cobra.ExactArgs(1),
		Example: `  rfcindex set 50 --title "Foo"
  rfcindex set 50 --tags "" # clears the tags`,
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := cmdutil.ParseNumber(args[0])
			if err != nil {
				return err
			}
			p := reconciler.SetParams{
				Number:    number,
				Filename:  cmdutil.OptionalString(cmd, "filename"),
				StartDate: cmdutil.OptionalString(cmd, "start-date"),
				MergeDate: cmdutil.OptionalString(cmd, "merge-date"),
				Title:     cmdutil.OptionalString(cmd, "title"),
			}
			if cmd.Flags().Changed("feature-name") {
				p.FeatureName = cmdutil.ParseList(fields.featureName)
			}
			if cmd.Flags().Changed("issues") {
				p.Issues = cmdutil.ParseList(fields.issues)
			}
			if cmd.Flags().Changed("tags") {
				p.Tags = cmdutil.ParseList(fields.tags)
			}
			if cmd.Flags().Changed("teams") {
				if p.Teams, err = cmdutil.ParseTeams(fields.teams); err != nil {
					return err
				}
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			rec, err := client.Set(cmd.Context(), p)
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, output.Record{Record: rec})
		},
	}
	addFieldFlags(cmd, &fields)
	cmd.Flags().String("filename", "", "document filename")
	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "get <number>",
		GroupID: "core",
		Short:   "Show the metadata record of one RFC",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := cmdutil.ParseNumber(args[0])
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			rec, err := client.Record(cmd.Context(), number)
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, output.Record{Record: rec})
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <number>",
		GroupID: "core",
		Short:   "Remove the metadata record of one RFC",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := cmdutil.ParseNumber(args[0])
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := client.Delete(cmd.Context(), number); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted RFC %d\n", number)
			return err
		},
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

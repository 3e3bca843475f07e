// Package cmdutil provides argument parsing and output helpers shared by rfcindex commands.
package cmdutil

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/rfcindex/internal/cmd/output"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/records"
	"github.com/agentstation/rfcindex/pkg/tokens"
)

// ParseNumber parses a document number argument.
func ParseNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n <= 0 {
		return 0, errors.NewValidationError("RFC number", arg, "must be a positive integer")
	}
	return n, nil
}

// ParseNumbers parses every argument as a document number.
func ParseNumbers(args []string) ([]int, error) {
	numbers := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := ParseNumber(arg)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// ParseList splits a free-text flag value the way document headers are split,
// so "foo, bar and baz" yields three items.
func ParseList(value string) []string {
	return tokens.Parse(value)
}

// ParseTeams parses a list of team names such as "lang, T-compiler".
func ParseTeams(value string) ([]records.Team, error) {
	names := tokens.Parse(value)
	teams := make([]records.Team, 0, len(names))
	for _, name := range names {
		team, err := records.ParseTeam(name)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// OptionalString returns a pointer to the flag's value when it was set on the
// command line, and nil otherwise.
func OptionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return &v
}

// FormatSource is the part of the application that knows the requested format.
type FormatSource interface {
	OutputFormat() string
}

// Print writes data to the command's output in the requested format.
func Print(cmd *cobra.Command, app FormatSource, data any) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return errors.NewValidationError("format", app.OutputFormat(), err.Error())
	}
	return output.NewFormatter(output.DetectFormat(string(format))).Format(cmd.OutOrStdout(), data)
}

// Package application provides the application interface for rfcindex commands.
//
// Commands accept this interface rather than the concrete App so they can be
// tested against a mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (*rfcindex.Client, error) {
//	        return rfcindex.New(rfcindex.WithMetadataDir(dir))
//	    },
//	}
//	cmd := record.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex"
)

// Application provides what commands need from the running program.
type Application interface {
	// Client returns the rfcindex client built from configuration. It is
	// created on first use and shared afterwards.
	Client() (*rfcindex.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the --format value, empty when unset.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Package constants provides shared constants used throughout the rfcindex codebase.
// This includes on-disk layout, schema versioning, timeouts and file permissions
// that should be consistent across the application.
package constants

import "time"

// MetadataVersion is the schema version written into every saved record.
// Bump it together with any change to the record's fields and register an
// upgrade step for the previous version in pkg/records.
const MetadataVersion uint64 = 2

// Layout constants describe where metadata and the source working copy live
const (
	// DefaultMetadataDir holds one JSON file per record plus the tag dictionary
	DefaultMetadataDir = "metadata"

	// TagDictionaryFilename is the tag dictionary file inside the metadata directory
	TagDictionaryFilename = "tags.json"

	// RecordNumberWidth is the zero-padded width of record filenames
	RecordNumberWidth = 4

	// DefaultWorkDir is the working copy of the tracked source repository
	DefaultWorkDir = "work"

	// DefaultTextDir is the directory inside the working copy holding the documents
	DefaultTextDir = "text"

	// DefaultRepoURL is the tracked source repository
	DefaultRepoURL = "https://github.com/rust-lang/rfcs.git"

	// DefaultRepoBranch is the branch pulled into the working copy
	DefaultRepoBranch = "master"

	// DefaultGitHubRepo is the owner/name whose pull request labels are read
	DefaultGitHubRepo = "rust-lang/rfcs"

	// DefaultGitHubAPIURL is the GitHub REST API base URL
	DefaultGitHubAPIURL = "https://api.github.com"
)

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the transport-level timeout for tracker requests
	DefaultHTTPTimeout = 30 * time.Second

	// LabelFetchTimeout bounds a single document's label fetch
	LabelFetchTimeout = 30 * time.Second

	// GitTimeout bounds a clone or pull of the working copy
	GitTimeout = 5 * time.Minute

	// WatchDebounce coalesces bursts of filesystem events
	WatchDebounce = 200 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

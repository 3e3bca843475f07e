// Package errors provides the error kinds of the rfcindex system.
// Every engine operation returns one of these (possibly wrapped) so callers can
// classify failures with errors.Is and errors.As instead of matching strings.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers only need one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Sentinel errors for the rfcindex system
var (
	// ErrNotFound indicates that a requested record or file was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that metadata already exists for a document
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnsupportedVersion indicates a stored record was written by a newer schema
	ErrUnsupportedVersion = errors.New("unsupported metadata version")

	// ErrParse indicates malformed text, such as a filename without a numeric prefix
	ErrParse = errors.New("parse error")

	// ErrSerialization indicates a JSON document could not be encoded or decoded
	ErrSerialization = errors.New("serialization error")

	// ErrIO indicates a filesystem failure other than a missing file
	ErrIO = errors.New("io error")

	// ErrTracker indicates the label tracker was unavailable or had no labels
	ErrTracker = errors.New("tracker error")

	// ErrMissingMetadata indicates an operation targeted a document with no record
	ErrMissingMetadata = errors.New("missing metadata")

	// ErrInvalidInput indicates a malformed user-supplied argument or tag
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AlreadyExistsError is returned when adding a record that is already stored.
type AlreadyExistsError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// UnsupportedVersionError is returned when a stored record declares a schema
// version newer than the one this build understands.
type UnsupportedVersionError struct {
	Path      string
	Version   uint64
	Supported uint64
}

// Error implements the error interface
func (e *UnsupportedVersionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unsupported metadata version %d in %s (newest supported is %d)", e.Version, e.Path, e.Supported)
	}
	return fmt.Sprintf("unsupported metadata version %d (newest supported is %d)", e.Version, e.Supported)
}

// Is implements errors.Is support
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// ParseError represents an error when parsing free text
type ParseError struct {
	What    string // "filename", "header", "number"
	Input   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("parse error in %s %q: %s", e.What, e.Input, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.What, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(what, input, message string, err error) *ParseError {
	return &ParseError{
		What:    what,
		Input:   input,
		Message: message,
		Err:     err,
	}
}

// SerializationError represents a failure to encode or decode a stored document
type SerializationError struct {
	Format string // "json", "yaml"
	File   string
	Err    error
}

// Error implements the error interface
func (e *SerializationError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s serialization error in %s: %v", e.Format, e.File, e.Err)
	}
	return fmt.Sprintf("%s serialization error: %v", e.Format, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "list"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. A missing file classifies as ErrNotFound
// rather than ErrIO.
func (e *IOError) Is(target error) bool {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return target == ErrNotFound
	}
	return target == ErrIO
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// TrackerError represents a failure of the external label tracker
type TrackerError struct {
	Tracker    string
	Number     int
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	tracker := e.Tracker
	if tracker == "" {
		tracker = "label tracker"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("tracker error from %s for #%d (status %d): %s", tracker, e.Number, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tracker error from %s for #%d: %s", tracker, e.Number, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TrackerError) Is(target error) bool {
	return target == ErrTracker
}

// MissingMetadataError is returned when an operation names a document that has
// no stored record.
type MissingMetadataError struct {
	Number int
}

// Error implements the error interface
func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("RFC %d does not have metadata", e.Number)
}

// Is implements errors.Is support
func (e *MissingMetadataError) Is(target error) bool {
	return target == ErrMissingMetadata || target == ErrNotFound
}

// ValidationError represents a malformed user-supplied value
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string
	Command   string
	Output    string
	Err       error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ProcessError) Is(target error) bool {
	return target == ErrIO
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsUnsupportedVersion checks if an error is an unsupported version error
func IsUnsupportedVersion(err error) bool {
	return errors.Is(err, ErrUnsupportedVersion)
}

// IsMissingMetadata checks if an error reports a document without a record
func IsMissingMetadata(err error) bool {
	return errors.Is(err, ErrMissingMetadata)
}

// IsTracker checks if an error came from the label tracker
func IsTracker(err error) bool {
	return errors.Is(err, ErrTracker)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapJSON wraps an encoding error as a SerializationError
func WrapJSON(file string, err error) error {
	if err == nil {
		return nil
	}
	return &SerializationError{Format: "json", File: file, Err: err}
}

// WrapYAML wraps an encoding error as a SerializationError
func WrapYAML(file string, err error) error {
	if err == nil {
		return nil
	}
	return &SerializationError{Format: "yaml", File: file, Err: err}
}

package errors

import (
	"fmt"
)

// Transcript and media pipeline errors
var (
	// Segment ordering/overlap violated, or duration not positive
	ErrInvalidTranscript = New("invalid transcript")
	// Stale segment id reference
	ErrSegmentNotFound = New("segment not found")

	// External collaborator failures
	ErrUnsupportedFormat   = New("unsupported media format")
	ErrTranscriptionFailed = New("transcription failed")
	ErrSpliceFailed        = New("splice failed")
)

// Configuration and storage errors
var (
	ErrInvalidConfig      = New("invalid configuration")
	ErrProviderNotFound   = New("provider not found")
	ErrDatabaseConnection = New("database connection failed")
	ErrInsertFailed       = New("insert failed")
	ErrQueryFailed        = New("query failed")
	ErrFileNotFound       = New("file not found")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// InvalidTranscript returns an ErrInvalidTranscript carrying the reason
func InvalidTranscript(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTranscript, fmt.Sprintf(format, args...))
}

// SegmentNotFound returns an ErrSegmentNotFound for the given id
func SegmentNotFound(id int) error {
	return fmt.Errorf("%w: id %d", ErrSegmentNotFound, id)
}

// UnsupportedFormat returns an ErrUnsupportedFormat naming the extension and the accepted set
func UnsupportedFormat(ext string, supported []string) error {
	return fmt.Errorf("%w %q (supported: %v)", ErrUnsupportedFormat, ext, supported)
}

// TranscriptionFailed marks err as an engine failure while keeping it in the chain
func TranscriptionFailed(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
}

// SpliceFailed marks err as a splicer failure while keeping it in the chain
func SpliceFailed(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrSpliceFailed, err)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return fmt.Errorf("%w: %s is invalid: %s", ErrInvalidConfig, field, reason)
}

package errors

import "fmt"

// Error taxonomy. Every error surfaced by a session action matches exactly one
// of these with errors.Is.
var (
	ErrConfig        = New("configuration error")
	ErrTranscription = New("transcription error")
	ErrSummarization = New("summarization error")
)

// Precondition and input errors, wrapped under the taxonomy above.
var (
	ErrMissingAPIKey    = New("missing API key")
	ErrServiceNotReady  = New("service is not configured")
	ErrNoAudio          = New("no audio file uploaded")
	ErrNoTranscription  = New("no transcription available")
	ErrNoSummary        = New("no summary available")
	ErrEmptyInput       = New("input text is empty")
	ErrEmptyResponse    = New("empty response from service")
	ErrInvalidMaxWords  = New("invalid summary length")
	ErrSessionNotFound  = New("session not found")
	ErrFileWriteFailed  = New("file write failed")
	ErrUnsupportedInput = New("unsupported input")
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

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Tag files cause under a taxonomy sentinel. The result matches both the
// sentinel and anything cause matches. A cause that already carries the
// sentinel is returned as is.
func Tag(sentinel *Error, cause error) error {
	if cause == nil {
		return nil
	}
	if e, ok := cause.(*Error); ok && e.message == sentinel.message {
		return cause
	}
	return &Error{
		message: sentinel.message,
		cause:   cause,
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

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// OutOfRange returns an error for values outside acceptable range
func OutOfRange(field string, min, max interface{}) error {
	return Newf("%s out of range (must be between %v and %v)", field, min, max)
}

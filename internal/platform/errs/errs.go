package errs

import "fmt"

// Kind categorizes application errors for HTTP status mapping.
type Kind int

const (
	// Unknown represents an unclassified error (HTTP 500).
	Unknown Kind = iota
	// InvalidInput indicates the request was malformed (HTTP 400).
	InvalidInput
	// FetchFailed covers every way the target page could not be retrieved:
	// DNS, connection, TLS, timeout and non-2xx status (HTTP 502).
	FetchFailed
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case FetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int // HTTP status code returned by the target page, if any
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

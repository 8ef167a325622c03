// Package errs defines the error taxonomy for the incident-to-issue pipeline.
//
// Every failure the pipeline can produce carries a Kind, so the top-level
// handler in main can print a category-specific remediation hint without
// string-matching error messages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// Input errors: reported before any network call is made.
	InvalidAppID          Kind = "invalid_app_id"
	InvalidIncidentNumber Kind = "invalid_incident_number"
	InvalidRepoFormat     Kind = "invalid_repo_format"
	MissingCredential     Kind = "missing_credential"

	// Fetch-boundary errors.
	NetworkError      Kind = "network_error"
	APIError          Kind = "api_error"
	MalformedResponse Kind = "malformed_response"
	QueryError        Kind = "query_error"

	// Semantic rejections of a well-formed monitoring response.
	IncidentNotFound  Kind = "incident_not_found"
	WrongIncidentType Kind = "wrong_incident_type"

	// Publish-boundary errors.
	RepoNotDetected    Kind = "repo_not_detected"
	IssueCreationError Kind = "issue_creation_error"
)

// Error is a classified pipeline error. It wraps an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or the empty Kind for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Hint returns a remediation hint for the error's category, or an empty
// string when there is nothing useful to add.
func Hint(err error) string {
	switch KindOf(err) {
	case InvalidAppID:
		return "The app ID must be exactly 24 hexadecimal characters (find it in the AppSignal app URL)."
	case InvalidIncidentNumber:
		return "The incident number must be a positive integer, e.g. 42."
	case InvalidRepoFormat:
		return "The repository must be in owner/repo form, e.g. acme/storefront."
	case MissingCredential:
		return "Set the named environment variable (or a .env file) before running."
	case NetworkError:
		return "Check connectivity and proxy settings; the monitoring API was not reachable."
	case APIError, QueryError, MalformedResponse:
		return "Verify APPSIGNAL_API_TOKEN is valid and has access to this app."
	case IncidentNotFound:
		return "Verify the app ID and incident number; the incident may have been removed."
	case WrongIncidentType:
		return "This tool only supports performance incidents."
	case RepoNotDetected:
		return "Set GITHUB_REPOSITORY=owner/repo or run inside a clone with an origin remote."
	case IssueCreationError:
		return "Verify the GitHub credentials can create issues in the resolved repository."
	}
	return ""
}

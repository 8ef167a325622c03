package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(WrongIncidentType, "incident 42 is a %s", "ExceptionIncident")
	if KindOf(err) != WrongIncidentType {
		t.Errorf("KindOf = %q; want wrong_incident_type", KindOf(err))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("unclassified errors should report the empty kind")
	}
	if KindOf(nil) != "" {
		t.Error("nil should report the empty kind")
	}

	// Classification survives further wrapping.
	wrapped := fmt.Errorf("outer context: %w", err)
	if KindOf(wrapped) != WrongIncidentType {
		t.Error("KindOf should see through fmt.Errorf wrapping")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(NetworkError, cause, "monitoring API request failed")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	want := "monitoring API request failed: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(IncidentNotFound, "no incident found")
	if !Is(err, IncidentNotFound) {
		t.Error("Is should match the carried kind")
	}
	if Is(err, APIError) {
		t.Error("Is should not match other kinds")
	}
}

func TestHintCoversEveryKind(t *testing.T) {
	kinds := []Kind{
		InvalidAppID, InvalidIncidentNumber, InvalidRepoFormat, MissingCredential,
		NetworkError, APIError, MalformedResponse, QueryError,
		IncidentNotFound, WrongIncidentType,
		RepoNotDetected, IssueCreationError,
	}
	for _, kind := range kinds {
		if Hint(New(kind, "x")) == "" {
			t.Errorf("kind %q has no remediation hint", kind)
		}
	}
	if Hint(errors.New("plain")) != "" {
		t.Error("unclassified errors should have no hint")
	}
}

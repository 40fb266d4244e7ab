package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotConfigured = errors.New("missing API key, workspace id, or doc id")
	ErrPageNotFound  = errors.New("page not found")
	ErrNoChildren    = errors.New("page has no child pages")
)

// StatusError reports a request the service answered with an unexpected
// HTTP status. It is distinct from a transport failure: during upload a
// StatusError on update invalidates the mapping and falls through to
// create, while a transport failure fails the file outright.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// ValidationError represents invalid command input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Credentials identifies the remote workspace. Network commands fail fast
// without issuing any call when these are incomplete.
type Credentials struct {
	APIKey      string
	WorkspaceID string
}

// Complete reports whether both fields are set.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.WorkspaceID != ""
}

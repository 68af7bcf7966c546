package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrNoTable means the score table did not appear within the wait window.
	// The faculty contributes zero records; it is never fatal.
	ErrNoTable = errors.New("score table not found")

	ErrNoSelect     = errors.New("faculty select list not found")
	ErrSessionEnded = errors.New("browser session is closed")
)

// SessionError wraps failures of the browser session or page access.
// These abort the whole run.
type SessionError struct {
	Op      string
	Faculty string
	Err     error
}

func (e *SessionError) Error() string {
	if e.Faculty != "" {
		return fmt.Sprintf("session error during %s (faculty %q): %v", e.Op, e.Faculty, e.Err)
	}
	return fmt.Sprintf("session error during %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur while reading a saved page.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FetchError wraps errors that occur while downloading a page over HTTP.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the processing pipeline.
type PipelineError struct {
	Stage string
	Major *Major
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

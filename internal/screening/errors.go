package screening

import (
	"errors"
	"fmt"
)

// Non-retryable attempt failures. The worker maps these onto the candidate's
// failure_reason code.
var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrMissingJobDetails = errors.New("missing job details")
	ErrMissingRcdKey     = errors.New("missing requirements document key")
)

// ValidationError is a 400/422 from the scoring service: the request itself is
// malformed, so retrying cannot help.
type ValidationError struct {
	StatusCode int
	Body       string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scoring request rejected (%d): %s", e.StatusCode, e.Body)
}

// StatusError is an application-level failure: the service answered but its
// status field was not "success".
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scoring service returned status %q", e.Status)
}

// RetriesExhaustedError wraps the last transient error after the retry budget
// ran out.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("scoring failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Last }

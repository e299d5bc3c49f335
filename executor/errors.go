package executor

import "fmt"

// ContentUnavailableError marks a content-acquisition failure: the external
// provider was missing, unreachable, or answered with a non-200 status. It
// is fatal to the single affected activity for the single affected
// participant only; the fan-out logs it and continues, and sibling
// participants' executions of the same activity are unaffected.
type ContentUnavailableError struct {
	SessionID string
	Kind      string
	Err       error
}

// Error implements the error interface.
func (e *ContentUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("content unavailable for %s activity on session %s", e.Kind, e.SessionID)
	}
	return fmt.Sprintf("content unavailable for %s activity on session %s: %v", e.Kind, e.SessionID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ContentUnavailableError) Unwrap() error { return e.Err }

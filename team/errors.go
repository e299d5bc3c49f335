package team

// Human-readable transition rejection reasons surfaced to requesters.
const (
	// ReasonAllMembersAssigned gates the start transition.
	ReasonAllMembersAssigned = "all joined members must be assigned to a team role"
	// ReasonSessionRunning rejects roster changes after start.
	ReasonSessionRunning = "the session has already started"
	// ReasonCourseTerminated is the generic message shown to a participant
	// whose session ends due to a failure; the underlying cause travels as
	// supplementary detail.
	ReasonCourseTerminated = "the course was terminated"
)

// MembershipError is an invalid membership transition. Error() returns the
// human-readable unmet precondition shown to the requester.
type MembershipError struct {
	Action string
	Reason string
}

// Error implements the error interface.
func (e *MembershipError) Error() string { return e.Reason }

func reject(action, reason string) error {
	return &MembershipError{Action: action, Reason: reason}
}

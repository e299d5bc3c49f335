// Package executor applies resolved strategies across a knowledge session's
// participants.
//
// Each activity of a strategy executes once against the host and once
// against every currently joined team-member session, concurrently, with a
// join barrier: the host's post-activity delay begins only after every
// joiner has finished the activity, and the next activity starts only after
// every worker (host included) has finished the current one. Worker failures
// are aggregated; all are logged and the first is surfaced to the caller,
// which terminates the host session.
//
// Content personalisation never mutates the shared authored activity: the
// dispatcher clones at the boundary and substitutes content on the clone
// (see Dispatch). Controller-tagged feedback is additionally routed to
// attached monitor endpoints as an isolated minimal copy, independent of the
// learner-facing path.
package executor

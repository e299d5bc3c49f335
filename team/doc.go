// Package team manages the lifecycle of team membership for knowledge
// sessions: hosting, joining, role assignment, start gating and
// termination.
//
// A session moves from hosted (empty roster) through partially assigned to
// start-eligible once every joined member (and the host, when the
// organization requires it) holds a team role. Start invokes the host's
// surface first, then every joiner's in join order, since the host owns the
// logging and session bootstrapping other members depend on.
//
// During session-log playback the original membership commands are not
// re-issued; transitions are instead inferred by diffing each recorded
// roster snapshot against the currently known roster. A live transition
// failure surfaces as an error (negative acknowledgment); the same failure
// during playback force-terminates the affected session, since there is no
// live requester to retry.
package team

package core

import (
	"sync"
	"time"
)

// SessionType categorizes how a knowledge session is being driven.
type SessionType int

const (
	// SessionTypeNormal is a live session with real participants.
	SessionTypeNormal SessionType = iota
	// SessionTypePlayback is a session-log replay without scenario execution.
	SessionTypePlayback
	// SessionTypeActivePlayback is a replay that re-executes scenario logic.
	// Active playback has no live joiner sessions; fan-out targets only the
	// host.
	SessionTypeActivePlayback
)

// String returns the string representation of the session type.
func (t SessionType) String() string {
	switch t {
	case SessionTypeNormal:
		return "normal"
	case SessionTypePlayback:
		return "playback"
	case SessionTypeActivePlayback:
		return "active-playback"
	default:
		return "unknown"
	}
}

// SessionMembership describes how a member participates in team formation.
// Concrete membership types implement the unexported isMembership marker
// enabling a closed set.
type SessionMembership interface{ isMembership() }

// IndividualMembership is the default membership: the member joined on their
// own and has no team role until explicitly assigned.
type IndividualMembership struct{}

func (IndividualMembership) isMembership() {}

// RosterEntry pairs a username with a team role name.
type RosterEntry struct {
	Username string
	RoleName string
}

// GroupMembership carries a pre-populated full roster, used when an external
// controller assigns every participant to a team role in bulk at session
// creation time.
type GroupMembership struct {
	Roster []RosterEntry
}

func (GroupMembership) isMembership() {}

// SessionMember is one participant in a knowledge session: their domain
// session id, username, membership style and (once assigned) their team
// organization role.
type SessionMember struct {
	SessionID  string
	Username   string
	Membership SessionMembership
	// Assigned is the member's team-organization role; nil until the assign
	// transition (or bulk group roster) binds one.
	Assigned *TeamMember
}

// Clone returns a copy of the member. The Assigned pointer is shared since
// team organization nodes are authored and immutable.
func (m *SessionMember) Clone() *SessionMember {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// KnowledgeSession tracks one team training session: the hosting member, the
// set of joined members in join order, and lifecycle state. It is identified
// by the host's session id and safe for concurrent access.
//
// Contract:
//   - Members returns a defensive copy to avoid external roster mutation
//   - Running flips exactly once, via SetRunning, after start gating passes
//   - Clone performs deep copies for safe divergence (playback diffing)
type KnowledgeSession struct {
	HostID       string
	Name         string
	Type         SessionType
	Host         *SessionMember
	Organization *TeamOrganization

	mu      sync.RWMutex
	members []*SessionMember
	running bool
	created time.Time
}

// NewKnowledgeSession creates a session hosted by the given member.
func NewKnowledgeSession(name string, host *SessionMember, org *TeamOrganization, sessionType SessionType) *KnowledgeSession {
	return &KnowledgeSession{
		HostID:       host.SessionID,
		Name:         name,
		Type:         sessionType,
		Host:         host,
		Organization: org,
		created:      time.Now(),
	}
}

// Running reports whether the session has started.
func (k *KnowledgeSession) Running() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.running
}

// SetRunning flips the running flag.
func (k *KnowledgeSession) SetRunning(running bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.running = running
}

// Members returns a defensive copy of the joined members in join order. The
// host is not included.
func (k *KnowledgeSession) Members() []*SessionMember {
	k.mu.RLock()
	defer k.mu.RUnlock()
	members := make([]*SessionMember, len(k.members))
	copy(members, k.members)
	return members
}

// Member returns the joined member with the given session id, or nil.
func (k *KnowledgeSession) Member(sessionID string) *SessionMember {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, m := range k.members {
		if m.SessionID == sessionID {
			return m
		}
	}
	return nil
}

// MemberByUsername returns the joined member with the given username, or nil.
func (k *KnowledgeSession) MemberByUsername(username string) *SessionMember {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, m := range k.members {
		if m.Username == username {
			return m
		}
	}
	return nil
}

// AddMember appends a member to the roster in join order.
func (k *KnowledgeSession) AddMember(m *SessionMember) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.members = append(k.members, m)
}

// RemoveMember removes the member with the given session id. It reports
// whether a member was removed.
func (k *KnowledgeSession) RemoveMember(sessionID string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i, m := range k.members {
		if m.SessionID == sessionID {
			k.members = append(k.members[:i], k.members[i+1:]...)
			return true
		}
	}
	return false
}

// Unassigned returns the usernames of joined members (and the host, when the
// organization requires a host role) that have no team role yet. An empty
// result means the session is start-eligible.
func (k *KnowledgeSession) Unassigned() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	var missing []string
	if k.Organization != nil && k.Organization.HostRoleRequired && k.Host.Assigned == nil {
		missing = append(missing, k.Host.Username)
	}
	for _, m := range k.members {
		if m.Assigned == nil {
			missing = append(missing, m.Username)
		}
	}
	return missing
}

// Clone returns a deep copy of the session safe for independent mutation.
func (k *KnowledgeSession) Clone() *KnowledgeSession {
	k.mu.RLock()
	defer k.mu.RUnlock()
	clone := &KnowledgeSession{
		HostID:       k.HostID,
		Name:         k.Name,
		Type:         k.Type,
		Host:         k.Host.Clone(),
		Organization: k.Organization,
		running:      k.running,
		created:      k.created,
	}
	clone.members = make([]*SessionMember, len(k.members))
	for i, m := range k.members {
		clone.members[i] = m.Clone()
	}
	return clone
}

// Snapshot returns an immutable view of the session for outbound roster
// replies and playback diffing.
func (k *KnowledgeSession) Snapshot() KnowledgeSessionSnapshot {
	k.mu.RLock()
	defer k.mu.RUnlock()
	snap := KnowledgeSessionSnapshot{
		HostID:       k.HostID,
		Name:         k.Name,
		Type:         k.Type,
		Running:      k.running,
		HostUsername: k.Host.Username,
	}
	if k.Host.Assigned != nil {
		snap.HostRole = k.Host.Assigned.Name
	}
	for _, m := range k.members {
		entry := MemberSnapshot{SessionID: m.SessionID, Username: m.Username}
		if m.Assigned != nil {
			entry.RoleName = m.Assigned.Name
		}
		snap.Members = append(snap.Members, entry)
	}
	return snap
}

// MemberSnapshot is the immutable roster view of one joined member.
type MemberSnapshot struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	RoleName  string `json:"role_name,omitempty"`
}

// KnowledgeSessionSnapshot is the immutable view of a knowledge session used
// in roster replies and as the playback-mode membership record.
type KnowledgeSessionSnapshot struct {
	HostID       string           `json:"host_id"`
	Name         string           `json:"name"`
	Type         SessionType      `json:"type"`
	Running      bool             `json:"running"`
	HostUsername string           `json:"host_username"`
	HostRole     string           `json:"host_role,omitempty"`
	Members      []MemberSnapshot `json:"members"`
}

package registry

import (
	"sync"
	"time"

	"github.com/tutormesh/tutormesh/core"
)

// InMemory is a volatile core.SessionRegistry implementation storing
// knowledge sessions in a process local map, plus a joiner index mapping
// member session ids back to their host. It is safe for concurrent access
// and best suited for tests or single-process deployments.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string]*core.KnowledgeSession
	joiners  map[string]string // member session id -> host id
}

// NewInMemory constructs an empty in-memory session registry.
func NewInMemory() *InMemory {
	return &InMemory{
		sessions: make(map[string]*core.KnowledgeSession),
		joiners:  make(map[string]string),
	}
}

// KnowledgeSession returns the session hosted by hostID, if any.
func (r *InMemory) KnowledgeSession(hostID string) (*core.KnowledgeSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ks, ok := r.sessions[hostID]
	return ks, ok
}

// Put registers a session under its host id, replacing any previous one and
// rebuilding the joiner index entries for its current roster.
func (r *InMemory) Put(session *core.KnowledgeSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.sessions[session.HostID]; ok {
		r.dropJoinersLocked(prev)
	}
	r.sessions[session.HostID] = session
	for _, m := range session.Members() {
		r.joiners[m.SessionID] = session.HostID
	}
}

// Remove deletes the session hosted by hostID along with its joiner index
// entries.
func (r *InMemory) Remove(hostID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ks, ok := r.sessions[hostID]; ok {
		r.dropJoinersLocked(ks)
		delete(r.sessions, hostID)
	}
}

// AddJoiner records a member joining hostID's session and indexes the
// member's session id.
func (r *InMemory) AddJoiner(hostID string, member *core.SessionMember) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ks, ok := r.sessions[hostID]
	if !ok {
		return false
	}
	ks.AddMember(member)
	r.joiners[member.SessionID] = hostID
	return true
}

// RemoveJoiner removes a member from hostID's session and clears the index.
func (r *InMemory) RemoveJoiner(hostID, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ks, ok := r.sessions[hostID]
	if !ok {
		return false
	}
	if !ks.RemoveMember(sessionID) {
		return false
	}
	delete(r.joiners, sessionID)
	return true
}

// JoinedMembers returns the members currently joined to hostID's session in
// join order (defensive copy), empty if none or the session is unknown.
func (r *InMemory) JoinedMembers(hostID string) []*core.SessionMember {
	r.mu.RLock()
	ks, ok := r.sessions[hostID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return ks.Members()
}

// IsJoiner reports whether sessionID is currently joined to some host's
// session, returning that host id when so.
func (r *InMemory) IsJoiner(sessionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hostID, ok := r.joiners[sessionID]
	return hostID, ok
}

// TeamMemberFor returns the team-organization role assigned to the given
// domain session, checking both host and joiner roles.
func (r *InMemory) TeamMemberFor(sessionID string) *core.TeamMember {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if hostID, ok := r.joiners[sessionID]; ok {
		if ks, ok := r.sessions[hostID]; ok {
			if m := ks.Member(sessionID); m != nil {
				return m.Assigned
			}
		}
		return nil
	}
	if ks, ok := r.sessions[sessionID]; ok {
		return ks.Host.Assigned
	}
	return nil
}

// Snapshots returns immutable views of every registered session.
func (r *InMemory) Snapshots() []core.KnowledgeSessionSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snaps := make([]core.KnowledgeSessionSnapshot, 0, len(r.sessions))
	for _, ks := range r.sessions {
		snaps = append(snaps, ks.Snapshot())
	}
	return snaps
}

// Reply builds the outbound roster reply for all registered sessions.
func (r *InMemory) Reply() core.KnowledgeSessionsReply {
	return core.KnowledgeSessionsReply{Sessions: r.Snapshots(), Timestamp: time.Now().UTC()}
}

// dropJoinersLocked clears joiner index entries for the session; caller must
// hold the write lock.
func (r *InMemory) dropJoinersLocked(ks *core.KnowledgeSession) {
	for _, m := range ks.Members() {
		delete(r.joiners, m.SessionID)
	}
}

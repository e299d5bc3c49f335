package team

import (
	"context"
	"fmt"

	"github.com/tutormesh/tutormesh/core"
)

// ApplySnapshot replays one recorded membership snapshot against the live
// registry. During playback there is no interactive membership protocol: the
// recorded knowledge-session stream is the only source of truth, so
// transitions are inferred by diffing the incoming snapshot against the
// roster currently known for the same host. A snapshot naming an unknown
// host session creates it.
//
// There is no requester to negatively acknowledge during playback, so any
// inferred transition that fails force-terminates the affected session with
// the failure as the displayed detail.
func (m *Manager) ApplySnapshot(ctx context.Context, snap core.KnowledgeSessionSnapshot) error {
	if err := m.replay(ctx, snap); err != nil {
		detail := fmt.Sprintf("replaying recorded membership for session %s: %v", snap.HostID, err)
		m.logger.Error(detail)
		if _, ok := m.registry.KnowledgeSession(snap.HostID); ok {
			if terr := m.Terminate(ctx, snap.HostID, ReasonCourseTerminated, detail); terr != nil {
				m.logger.Error("terminating session %s after replay failure: %v", snap.HostID, terr)
			}
		}
		return err
	}
	return nil
}

func (m *Manager) replay(ctx context.Context, snap core.KnowledgeSessionSnapshot) error {
	ks, ok := m.registry.KnowledgeSession(snap.HostID)
	if !ok {
		created, err := m.replayHost(ctx, snap)
		if err != nil {
			return err
		}
		ks = created
	}

	// The recorded session carries no authored organization, so roles are
	// fabricated as they appear in the stream.
	if snap.HostRole != "" && ks.Host.Assigned == nil {
		m.ensureRole(ks, snap.HostRole)
		if err := m.Assign(ctx, snap.HostID, snap.HostID, snap.HostRole); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(snap.Members))
	for _, entry := range snap.Members {
		seen[entry.SessionID] = true

		member := ks.Member(entry.SessionID)
		if member == nil {
			m.logger.Debug("replay inferred join of %s (%s) into %s", entry.Username, entry.SessionID, snap.HostID)
			if err := m.Join(ctx, snap.HostID, entry.SessionID, entry.Username); err != nil {
				return err
			}
			member = ks.Member(entry.SessionID)
		}
		if entry.RoleName != "" && member != nil && member.Assigned == nil {
			m.logger.Debug("replay inferred assignment of %s to %q in %s", entry.SessionID, entry.RoleName, snap.HostID)
			m.ensureRole(ks, entry.RoleName)
			if err := m.Assign(ctx, snap.HostID, entry.SessionID, entry.RoleName); err != nil {
				return err
			}
		}
	}

	for _, member := range ks.Members() {
		if seen[member.SessionID] {
			continue
		}
		m.logger.Debug("replay inferred leave of %s from %s", member.SessionID, snap.HostID)
		if err := m.Leave(ctx, snap.HostID, member.SessionID); err != nil {
			return err
		}
	}

	// The recorded participants have no local presentation surfaces, so the
	// running flag is synced directly instead of going through Start.
	if snap.Running && !ks.Running() {
		ks.SetRunning(true)
		m.logger.Info("replay marked session %s as running", snap.HostID)
		m.publish(ctx)
	}

	return nil
}

// replayHost creates the playback-mode session a snapshot describes. The
// organization is seeded from the role names visible in the snapshot and
// grows as later snapshots reveal more.
func (m *Manager) replayHost(ctx context.Context, snap core.KnowledgeSessionSnapshot) (*core.KnowledgeSession, error) {
	root := &core.TeamMember{Name: snap.Name, Team: true}
	org := &core.TeamOrganization{Root: root, HostRoleRequired: snap.HostRole != ""}

	err := m.CreateTeamSession(ctx, snap.HostID, snap.HostUsername, snap.Name, org, core.IndividualMembership{}, core.SessionTypePlayback)
	if err != nil {
		return nil, err
	}
	ks, ok := m.registry.KnowledgeSession(snap.HostID)
	if !ok {
		return nil, fmt.Errorf("session %s missing from registry after replay create", snap.HostID)
	}
	m.logger.Info("replay created playback session %q hosted by %s", snap.Name, snap.HostID)
	return ks, nil
}

// ensureRole grows a fabricated playback organization with a leaf role the
// recorded stream mentioned. Authored organizations already contain their
// roles, so this is a no-op for them.
func (m *Manager) ensureRole(ks *core.KnowledgeSession, roleName string) {
	if ks.Organization == nil || ks.Organization.Root == nil {
		return
	}
	if ks.Organization.FindRole(roleName) != nil {
		return
	}
	ks.Organization.Root.Children = append(ks.Organization.Root.Children, &core.TeamMember{Name: roleName})
}

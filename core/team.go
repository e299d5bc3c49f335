package core

// TeamMember is a node in the authored team organization: either a playable
// leaf role or a sub-team containing further nodes. The organization tree is
// authored at scenario-load time and read-only to this core.
type TeamMember struct {
	Name string
	// Team marks the node as a sub-team rather than a playable leaf role.
	Team     bool
	Children []*TeamMember
}

// Find performs a depth-first search over the subtree rooted at this node
// (including itself) returning the first node whose Name matches. Returns
// nil if no match is found.
func (t *TeamMember) Find(name string) *TeamMember {
	if t == nil {
		return nil
	}
	if t.Name == name {
		return t
	}
	for _, child := range t.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// TeamOrganization is the authored team structure a knowledge session is
// formed against.
type TeamOrganization struct {
	Root *TeamMember
	// HostRoleRequired indicates the host must occupy a team role before the
	// session may start, in addition to every joined member.
	HostRoleRequired bool
}

// FindRole resolves a role name within the organization. Returns nil when
// the organization is empty or the name is unknown.
func (o *TeamOrganization) FindRole(name string) *TeamMember {
	if o == nil {
		return nil
	}
	return o.Root.Find(name)
}

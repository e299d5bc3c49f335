// Package monitor attaches observer endpoints (instructor dashboards,
// controller stations) to knowledge sessions and delivers the
// controller-bound side channel to them over WebSocket.
package monitor

import (
	"sync"

	"github.com/tutormesh/tutormesh/core"
)

// Registry is an in-memory core.MonitorRegistry. Endpoints are attached per
// observed session id; an endpoint may observe several sessions at once.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string][]core.MonitorEndpoint
}

// NewRegistry creates an empty monitor registry.
func NewRegistry() *Registry {
	return &Registry{endpoints: make(map[string][]core.MonitorEndpoint)}
}

// Attach registers an endpoint as an observer of sessionID.
func (r *Registry) Attach(sessionID string, endpoint core.MonitorEndpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[sessionID] = append(r.endpoints[sessionID], endpoint)
}

// Detach removes an endpoint from sessionID's observers.
func (r *Registry) Detach(sessionID string, endpoint core.MonitorEndpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.endpoints[sessionID]
	for i, e := range current {
		if e == endpoint {
			r.endpoints[sessionID] = append(current[:i:i], current[i+1:]...)
			break
		}
	}
	if len(r.endpoints[sessionID]) == 0 {
		delete(r.endpoints, sessionID)
	}
}

// MonitorsFor returns the endpoints currently observing sessionID.
func (r *Registry) MonitorsFor(sessionID string) []core.MonitorEndpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.MonitorEndpoint, len(r.endpoints[sessionID]))
	copy(out, r.endpoints[sessionID])
	return out
}

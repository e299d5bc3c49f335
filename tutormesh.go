// Package tutormesh provides a high-level façade over strategy resolution,
// concurrent activity execution, and team membership for intelligent
// tutoring deployments. Most applications interact with this package by:
//  1. Loading a strategy catalog (strategy.LoadCatalog)
//  2. Creating a TutorMesh via New() (optionally overriding default
//     in-memory services)
//  3. Registering presentation surfaces for participant sessions
//  4. Forwarding pedagogical requests and membership requests from the
//     scenario runtime
//
// The façade delegates orchestration to runner.Runner while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a real content
// provider, monitor transport, and a structured logger.
package tutormesh

import (
	"context"
	"sync"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/executor"
	"github.com/tutormesh/tutormesh/logging"
	"github.com/tutormesh/tutormesh/monitor"
	"github.com/tutormesh/tutormesh/registry"
	"github.com/tutormesh/tutormesh/runner"
	"github.com/tutormesh/tutormesh/strategy"
	"github.com/tutormesh/tutormesh/team"
)

// Options configures the TutorMesh instance.
type Options struct {
	// Registry owns the knowledge sessions. Defaults to in-memory.
	Registry *registry.InMemory

	// Monitors resolves observer endpoints attached to sessions. Defaults
	// to an empty in-memory registry.
	Monitors *monitor.Registry

	// Provider produces session-state content for flagged activities.
	// Optional; without it such activities are skipped with a logged error.
	Provider core.ContentProvider

	// Evaluator receives applied-strategy notifications for scenario
	// triggers. Optional.
	Evaluator core.TriggerEvaluator

	// Publisher receives roster snapshots after membership changes. Optional.
	Publisher core.RosterPublisher

	// Gateway receives authorization escalations in externally-controlled
	// deployments. Optional.
	Gateway runner.AuthorizationGateway

	// ContentServerURL qualifies relative media addresses for controller
	// delivery.
	ContentServerURL string

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// TutorMesh is the high-level façade aggregating the runner and its
// services.
type TutorMesh struct {
	opts     Options
	runner   *runner.Runner
	teams    *team.Manager
	registry *registry.InMemory
	monitors *monitor.Registry
	surfaces *surfaceMap
}

// New creates a TutorMesh over the given strategy catalog. Any unset service
// is initialized with an in-memory implementation.
func New(catalog *strategy.Catalog, optFns ...func(o *Options)) *TutorMesh {
	opts := Options{
		Registry: registry.NewInMemory(),
		Monitors: monitor.NewRegistry(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	surfaces := newSurfaceMap()

	exec := executor.New(func(o *executor.Options) {
		o.Registry = opts.Registry
		o.Surfaces = surfaces
		o.Monitors = opts.Monitors
		o.Provider = opts.Provider
		o.Evaluator = opts.Evaluator
		o.ContentServerURL = opts.ContentServerURL
		o.Logger = opts.Logger
	})

	teams := team.NewManager(func(o *team.Options) {
		o.Registry = opts.Registry
		o.Surfaces = surfaces
		o.Publisher = opts.Publisher
		o.Logger = opts.Logger
	})

	run := runner.New(catalog, func(o *runner.Options) {
		o.Executor = exec
		o.Teams = teams
		o.Monitors = opts.Monitors
		o.Gateway = opts.Gateway
		o.Logger = opts.Logger
	})

	return &TutorMesh{
		opts:     opts,
		runner:   run,
		teams:    teams,
		registry: opts.Registry,
		monitors: opts.Monitors,
		surfaces: surfaces,
	}
}

// RegisterSurface binds a participant session to its presentation surface.
func (m *TutorMesh) RegisterSurface(sessionID string, surface core.PresentationSurface) {
	m.surfaces.register(sessionID, surface)
}

// UnregisterSurface removes a session's presentation surface.
func (m *TutorMesh) UnregisterSurface(sessionID string) {
	m.surfaces.unregister(sessionID)
}

// AttachMonitor attaches an observer endpoint to a session.
func (m *TutorMesh) AttachMonitor(sessionID string, endpoint core.MonitorEndpoint) {
	m.monitors.Attach(sessionID, endpoint)
}

// HandlePedagogicalRequest resolves and asynchronously applies a pedagogical
// request, returning the batch id.
func (m *TutorMesh) HandlePedagogicalRequest(ctx context.Context, hostID string, req *core.PedagogicalRequest) (string, error) {
	return m.runner.HandlePedagogicalRequest(ctx, hostID, req)
}

// ApplyStrategies applies an authored strategy set synchronously.
func (m *TutorMesh) ApplyStrategies(ctx context.Context, hostID string, set core.StrategySet) error {
	return m.runner.ApplyStrategies(ctx, hostID, set)
}

// ManageTeamMembership performs one membership transition; a returned error
// is the rejection reason for the requester.
func (m *TutorMesh) ManageTeamMembership(ctx context.Context, req runner.MembershipRequest) error {
	return m.runner.ManageTeamMembership(ctx, req)
}

// KnowledgeSessionUpdated replays a recorded membership snapshot during
// playback.
func (m *TutorMesh) KnowledgeSessionUpdated(ctx context.Context, snap core.KnowledgeSessionSnapshot) error {
	return m.runner.KnowledgeSessionUpdated(ctx, snap)
}

// RequestAuthorization escalates pending strategies to monitors and the
// configured gateway.
func (m *TutorMesh) RequestAuthorization(ctx context.Context, hostID, reason string, strategyNames []string, evaluator string) error {
	return m.runner.RequestAuthorization(ctx, hostID, reason, strategyNames, evaluator)
}

// Cancel cancels a running strategy batch.
func (m *TutorMesh) Cancel(batchID string) error { return m.runner.Cancel(batchID) }

// Sessions returns roster snapshots for every registered knowledge session.
func (m *TutorMesh) Sessions() []core.KnowledgeSessionSnapshot {
	return m.registry.Snapshots()
}

// surfaceMap is the default in-memory core.SurfaceResolver.
type surfaceMap struct {
	mu       sync.RWMutex
	surfaces map[string]core.PresentationSurface
}

func newSurfaceMap() *surfaceMap {
	return &surfaceMap{surfaces: make(map[string]core.PresentationSurface)}
}

func (s *surfaceMap) register(sessionID string, surface core.PresentationSurface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfaces[sessionID] = surface
}

func (s *surfaceMap) unregister(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.surfaces, sessionID)
}

func (s *surfaceMap) SurfaceFor(sessionID string) (core.PresentationSurface, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	surface, ok := s.surfaces[sessionID]
	return surface, ok
}

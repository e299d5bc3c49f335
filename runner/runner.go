package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/executor"
	"github.com/tutormesh/tutormesh/logging"
	"github.com/tutormesh/tutormesh/metrics"
	"github.com/tutormesh/tutormesh/strategy"
	"github.com/tutormesh/tutormesh/team"
)

// AuthorizationGateway escalates strategies pending approval to an external
// controlling service. monitor.HTTPGateway implements it.
type AuthorizationGateway interface {
	RequestAuthorization(ctx context.Context, req core.AuthorizeStrategiesRequest) error
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Resolver maps abstract intents to concrete strategies. Defaults to a
	// resolver sharing the runner's logger.
	Resolver *strategy.Resolver
	// Executor fans resolved strategies out across participants. Required.
	Executor *executor.Executor
	// Teams performs membership transitions and playback replay. Required.
	Teams *team.Manager
	// Monitors resolves attached observer endpoints for authorization
	// escalation. Optional.
	Monitors core.MonitorRegistry
	// Gateway receives authorization requests in externally-controlled
	// deployments. Optional.
	Gateway AuthorizationGateway
	// Evaluator is recorded on strategies applied without human review.
	// Defaults to core.EvaluatorAuto.
	Evaluator string
	// Logging services.
	Logger logging.Logger
}

// Runner coordinates strategy execution for a deployment: requests are
// resolved synchronously, then each request executes as an asynchronous
// tracked batch. Public methods are safe for concurrent use.
type Runner struct {
	catalog   *strategy.Catalog
	resolver  *strategy.Resolver
	executor  *executor.Executor
	teams     *team.Manager
	monitors  core.MonitorRegistry
	gateway   AuthorizationGateway
	evaluator string
	logger    logging.Logger

	activeBatches map[string]context.CancelFunc
	mu            sync.RWMutex
}

// New constructs a Runner over the given strategy catalog.
func New(catalog *strategy.Catalog, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Evaluator: core.EvaluatorAuto,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := core.LoggerOrNoOp(opts.Logger)
	if opts.Resolver == nil {
		opts.Resolver = strategy.NewResolver(func(o *strategy.ResolverOptions) {
			o.Logger = logger
		})
	}

	return &Runner{
		catalog:       catalog,
		resolver:      opts.Resolver,
		executor:      opts.Executor,
		teams:         opts.Teams,
		monitors:      opts.Monitors,
		gateway:       opts.Gateway,
		evaluator:     opts.Evaluator,
		logger:        logger,
		activeBatches: make(map[string]context.CancelFunc),
	}
}

// HandlePedagogicalRequest resolves a request against the catalog and starts
// an asynchronous batch applying the resolved strategies in request order.
// It returns the batch id immediately; an empty resolution returns an empty
// id and starts nothing.
//
// Any strategy failure inside the batch terminates the host's session: by
// the time a strategy fails mid-lesson the scenario state can no longer be
// trusted to match what the participants have seen.
func (r *Runner) HandlePedagogicalRequest(ctx context.Context, hostID string, req *core.PedagogicalRequest) (string, error) {
	if req.IsEmpty() {
		return "", nil
	}

	resolved := r.resolver.Resolve(req, r.catalog, r.evaluator)
	if len(resolved) == 0 {
		return "", nil
	}
	for _, group := range resolved {
		metrics.StrategiesResolved.Add(float64(len(group.Strategies)))
	}

	batchID := core.NewID()

	// The batch outlives the triggering call; it is bounded by its own
	// cancel function, not the request context.
	batchCtx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.activeBatches[batchID] = cancel
	r.mu.Unlock()

	r.logger.Info("starting strategy batch %s for host %s (%d reasons)", batchID, hostID, len(resolved))

	go func() {
		defer func() {
			cancel()
			r.mu.Lock()
			delete(r.activeBatches, batchID)
			r.mu.Unlock()
		}()
		r.runBatch(batchCtx, batchID, hostID, resolved)
	}()

	return batchID, nil
}

func (r *Runner) runBatch(ctx context.Context, batchID, hostID string, resolved []core.ResolvedStrategies) {
	for _, group := range resolved {
		for _, sta := range group.Strategies {
			if err := ctx.Err(); err != nil {
				r.logger.Info("strategy batch %s canceled", batchID)
				return
			}
			if err := r.executor.Apply(ctx, hostID, sta); err != nil {
				detail := fmt.Sprintf("strategy %q failed: %v", sta.Strategy.Name, err)
				r.logger.Error("strategy batch %s aborting, terminating session %s: %s", batchID, hostID, detail)
				if terr := r.teams.Terminate(ctx, hostID, team.ReasonCourseTerminated, detail); terr != nil {
					r.logger.Error("terminating session %s after batch failure: %v", hostID, terr)
				}
				return
			}
		}
	}
	r.logger.Info("strategy batch %s completed for host %s", batchID, hostID)
}

// ApplyStrategies applies an authored strategy set directly, bypassing intent
// resolution. Used for learner-action reactions where the set is already
// known. Unlike request batches it is synchronous: the caller is the
// scenario runtime and sequences its own actions.
func (r *Runner) ApplyStrategies(ctx context.Context, hostID string, set core.StrategySet) error {
	return r.executor.ApplySet(ctx, hostID, set)
}

// Cancel cancels a running strategy batch by id.
func (r *Runner) Cancel(batchID string) error {
	r.mu.RLock()
	cancel, ok := r.activeBatches[batchID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no active batch with id %s", batchID)
	}
	cancel()
	return nil
}

// ActiveBatches returns the ids of batches still executing.
func (r *Runner) ActiveBatches() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.activeBatches))
	for id := range r.activeBatches {
		ids = append(ids, id)
	}
	return ids
}

// KnowledgeSessionUpdated replays one recorded membership snapshot during
// playback.
func (r *Runner) KnowledgeSessionUpdated(ctx context.Context, snap core.KnowledgeSessionSnapshot) error {
	return r.teams.ApplySnapshot(ctx, snap)
}

// RequestAuthorization escalates strategies pending human approval to every
// monitor attached to the host session and, when configured, to the
// authorization gateway. Delivery failures to individual monitors are
// logged; the request fails only if no recipient accepted it.
func (r *Runner) RequestAuthorization(ctx context.Context, hostID, reason string, strategyNames []string, evaluator string) error {
	req := core.AuthorizeStrategiesRequest{
		ID:            core.NewID(),
		HostID:        hostID,
		Reason:        reason,
		StrategyNames: strategyNames,
		Evaluator:     evaluator,
		Timestamp:     time.Now().UTC(),
	}

	delivered := 0
	var lastErr error

	if r.monitors != nil {
		for _, endpoint := range r.monitors.MonitorsFor(hostID) {
			if err := endpoint.RequestAuthorization(ctx, req); err != nil {
				r.logger.Warn("authorization request %s to monitor failed: %v", req.ID, err)
				lastErr = err
				continue
			}
			delivered++
		}
	}
	if r.gateway != nil {
		if err := r.gateway.RequestAuthorization(ctx, req); err != nil {
			r.logger.Warn("authorization request %s to gateway failed: %v", req.ID, err)
			lastErr = err
		} else {
			delivered++
		}
	}

	if delivered == 0 {
		if lastErr != nil {
			return fmt.Errorf("authorization request %s undeliverable: %w", req.ID, lastErr)
		}
		return fmt.Errorf("authorization request %s undeliverable: no monitors or gateway attached to %s", req.ID, hostID)
	}
	return nil
}

package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/logging"
	"github.com/tutormesh/tutormesh/metrics"
)

// Options configures an Executor using the functional options pattern.
type Options struct {
	// Registry resolves the knowledge session and joined roster for a host.
	// Required.
	Registry core.SessionRegistry

	// Surfaces maps participant session ids to presentation surfaces.
	// Required.
	Surfaces core.SurfaceResolver

	// Monitors resolves attached observer/controller endpoints. Optional;
	// when nil, controller routing is a no-op.
	Monitors core.MonitorRegistry

	// Provider produces session-state content for flagged activities.
	// Optional; when nil, such activities fail with ContentUnavailableError.
	Provider core.ContentProvider

	// Evaluator receives applied-strategy notifications for the host's
	// trigger graph. Optional.
	Evaluator core.TriggerEvaluator

	// ContentServerURL qualifies relative audio asset addresses before
	// controller delivery. Optional.
	ContentServerURL string

	// Logger records execution outcomes. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Executor fans activities out across a host session and its joined team
// members. Public methods are safe for concurrent use; concurrent
// applications against the same host are serialized by the caller (one
// worker per batch, see runner).
type Executor struct {
	registry         core.SessionRegistry
	surfaces         core.SurfaceResolver
	monitors         core.MonitorRegistry
	provider         core.ContentProvider
	evaluator        core.TriggerEvaluator
	contentServerURL string
	logger           logging.Logger
}

// New constructs an Executor with the given collaborators.
func New(optFns ...func(o *Options)) *Executor {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Executor{
		registry:         opts.Registry,
		surfaces:         opts.Surfaces,
		monitors:         opts.Monitors,
		provider:         opts.Provider,
		evaluator:        opts.Evaluator,
		contentServerURL: opts.ContentServerURL,
		logger:           core.LoggerOrNoOp(opts.Logger),
	}
}

// Apply executes one resolved strategy against the host session and every
// currently joined team member.
//
// If the host session id is itself a joiner of another team session the
// request is dropped without error: the true host already received (or will
// receive) the authoritative copy, and applying here would duplicate it.
//
// Activities execute strictly in authored order. A nil return means every
// activity completed on every participant; a non-nil return carries the
// first worker failure (all are logged) and the caller is expected to
// terminate the host session.
func (e *Executor) Apply(ctx context.Context, hostID string, sta core.StrategyToApply) error {
	if sta.Strategy == nil {
		return fmt.Errorf("strategy to apply has no strategy")
	}

	if trueHost, joined := e.registry.IsJoiner(hostID); joined {
		e.logger.Debug("dropping strategy %q for joiner session %s (host %s owns the authoritative copy)", sta.Strategy.Name, hostID, trueHost)
		return nil
	}

	hostSurface, ok := e.surfaces.SurfaceFor(hostID)
	if !ok {
		return fmt.Errorf("no presentation surface for host session %s", hostID)
	}

	joiners, hostMember := e.roster(hostID)

	start := time.Now()
	status := "ok"
	defer func() {
		metrics.StrategiesApplied.WithLabelValues(status).Inc()
		metrics.StrategyDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	for _, activity := range sta.Strategy.Activities {
		if fb, isFeedback := activity.(core.FeedbackActivity); isFeedback && fb.DeliverToController {
			e.routeToController(ctx, hostID, joiners, fb, sta.Reason)
		}

		if err := e.fanOut(ctx, hostID, hostSurface, hostMember, joiners, activity); err != nil {
			status = "error"
			e.logger.Error("strategy %q under reason %q failed after %s: %v", sta.Strategy.Name, sta.Reason, time.Since(start), err)
			return err
		}
	}

	if sta.Strategy.ResetScenario {
		if err := hostSurface.RequestScenarioReset(ctx); err != nil {
			status = "error"
			return fmt.Errorf("scenario reset after strategy %q: %w", sta.Strategy.Name, err)
		}
	}

	if e.evaluator != nil {
		e.evaluator.StrategyApplied(ctx, hostID, core.NewStrategyAppliedEvent(sta))
	}

	e.logger.Info("strategy %q under reason %q applied to %d participants in %s", sta.Strategy.Name, sta.Reason, len(joiners)+1, time.Since(start))

	return nil
}

// ApplySet executes a raw strategy set (learner-action path) in list order,
// recording the automatic evaluator identity. Execution stops at the first
// failing strategy.
func (e *Executor) ApplySet(ctx context.Context, hostID string, set core.StrategySet) error {
	for _, s := range set.Strategies {
		sta := core.StrategyToApply{Strategy: s, Reason: set.Reason, Evaluator: core.EvaluatorAuto}
		if err := e.Apply(ctx, hostID, sta); err != nil {
			return err
		}
	}
	return nil
}

// roster resolves the currently joined members and the host's member record.
// Active playback has no live joiner sessions, so its roster is always
// empty.
func (e *Executor) roster(hostID string) ([]*core.SessionMember, *core.SessionMember) {
	ks, ok := e.registry.KnowledgeSession(hostID)
	if !ok {
		return nil, nil
	}
	if ks.Type == core.SessionTypeActivePlayback {
		return nil, ks.Host
	}
	return e.registry.JoinedMembers(hostID), ks.Host
}

// fanOut executes one activity against the host and every joiner
// concurrently. One worker is started per joiner plus one for the host; the
// host's post-activity delay begins only after every joiner worker has
// finished, and fanOut returns only after every worker (host included) has
// finished.
//
// Failures are aggregated: every worker error is logged, content
// acquisition failures are non-fatal (the affected participant simply skips
// the activity), and the first fatal error is returned.
func (e *Executor) fanOut(
	ctx context.Context,
	hostID string,
	hostSurface core.PresentationSurface,
	hostMember *core.SessionMember,
	joiners []*core.SessionMember,
	activity core.Activity,
) error {
	var (
		joinerWG sync.WaitGroup
		allWG    sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)

	record := func(err error) {
		var unavailable *ContentUnavailableError
		if errors.As(err, &unavailable) {
			// Fatal to the one activity on the one participant only.
			e.logger.Error("activity %s skipped: %v", activity.Kind(), err)
			return
		}
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}

	for _, member := range joiners {
		surface, ok := e.surfaces.SurfaceFor(member.SessionID)
		if !ok {
			record(fmt.Errorf("no presentation surface for joiner session %s", member.SessionID))
			continue
		}

		joinerWG.Add(1)
		allWG.Add(1)
		go func(m *core.SessionMember, s core.PresentationSurface) {
			defer joinerWG.Done()
			defer allWG.Done()

			if err := e.Dispatch(ctx, s, m.SessionID, m, activity); err != nil {
				record(fmt.Errorf("activity %s on joiner %s: %w", activity.Kind(), m.SessionID, err))
			}
		}(member, surface)
	}

	allWG.Add(1)
	go func() {
		defer allWG.Done()

		err := e.Dispatch(ctx, hostSurface, hostID, hostMember, activity)

		// Join barrier: the host's post-activity delay must not begin until
		// every joiner execution has completed. Holds trivially when there
		// are no joiners.
		joinerWG.Wait()

		if err != nil {
			record(fmt.Errorf("activity %s on host %s: %w", activity.Kind(), hostID, err))
			return
		}
		e.applyPostDelay(ctx, activity)
	}()

	allWG.Wait()

	if len(failures) == 0 {
		return nil
	}
	for _, err := range failures {
		e.logger.Error("fan-out failure on host %s: %v", hostID, err)
	}
	return failures[0]
}

// applyPostDelay pauses the host worker for the activity's authored
// post-activity delay, honoring cancellation.
func (e *Executor) applyPostDelay(ctx context.Context, activity core.Activity) {
	var delay time.Duration
	switch a := activity.(type) {
	case core.FeedbackActivity:
		delay = a.PostDelay
	case core.MidLessonMediaActivity:
		delay = a.PostDelay
	}
	if delay <= 0 {
		return
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

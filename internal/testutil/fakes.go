package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tutormesh/tutormesh/core"
)

// ExecutedActivity records one activity delivered to a FakeSurface.
type ExecutedActivity struct {
	Activity core.Activity
	At       time.Time
}

// FakeSurface is a recording core.PresentationSurface. Configure ExecuteErr
// or ExecuteDelay to simulate failures and slow surfaces.
type FakeSurface struct {
	mu         sync.Mutex
	executed   []ExecutedActivity
	started    int
	terminated []string
	resets     int

	// ExecuteErr, when set, is returned by every ExecuteActivity call.
	ExecuteErr error
	// StartErr, when set, is returned by StartTeamKnowledgeSession.
	StartErr error
	// TerminateErr, when set, is returned by Terminate.
	TerminateErr error
	// ExecuteDelay is slept before ExecuteActivity returns.
	ExecuteDelay time.Duration
}

func (f *FakeSurface) ExecuteActivity(ctx context.Context, activity core.Activity) error {
	if f.ExecuteDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.ExecuteDelay):
		}
	}
	f.mu.Lock()
	f.executed = append(f.executed, ExecutedActivity{Activity: activity, At: time.Now()})
	f.mu.Unlock()
	return f.ExecuteErr
}

func (f *FakeSurface) StartTeamKnowledgeSession(ctx context.Context) error {
	f.mu.Lock()
	f.started++
	f.mu.Unlock()
	return f.StartErr
}

func (f *FakeSurface) Terminate(ctx context.Context, reason, detail string) error {
	f.mu.Lock()
	f.terminated = append(f.terminated, reason)
	f.mu.Unlock()
	return f.TerminateErr
}

func (f *FakeSurface) RequestScenarioReset(ctx context.Context) error {
	f.mu.Lock()
	f.resets++
	f.mu.Unlock()
	return nil
}

// Executed returns the activities delivered so far, in delivery order.
func (f *FakeSurface) Executed() []ExecutedActivity {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ExecutedActivity, len(f.executed))
	copy(out, f.executed)
	return out
}

// Started returns how many times the session was started.
func (f *FakeSurface) Started() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

// Terminations returns the reasons passed to Terminate, in order.
func (f *FakeSurface) Terminations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.terminated))
	copy(out, f.terminated)
	return out
}

// Resets returns how many scenario resets were requested.
func (f *FakeSurface) Resets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

// SurfaceMap is a fixed core.SurfaceResolver for tests.
type SurfaceMap map[string]core.PresentationSurface

func (m SurfaceMap) SurfaceFor(sessionID string) (core.PresentationSurface, bool) {
	s, ok := m[sessionID]
	return s, ok
}

// FakeMonitor records controller messages and authorization requests.
type FakeMonitor struct {
	mu       sync.Mutex
	messages []core.ControllerMessage
	requests []core.AuthorizeStrategiesRequest

	// SendErr, when set, is returned by both delivery methods.
	SendErr error
}

func (f *FakeMonitor) SendControllerMessage(ctx context.Context, msg core.ControllerMessage) error {
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()
	return f.SendErr
}

func (f *FakeMonitor) RequestAuthorization(ctx context.Context, req core.AuthorizeStrategiesRequest) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.SendErr
}

// Messages returns the controller messages received so far.
func (f *FakeMonitor) Messages() []core.ControllerMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.ControllerMessage, len(f.messages))
	copy(out, f.messages)
	return out
}

// Requests returns the authorization requests received so far.
func (f *FakeMonitor) Requests() []core.AuthorizeStrategiesRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.AuthorizeStrategiesRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// MonitorMap is a fixed core.MonitorRegistry for tests.
type MonitorMap map[string][]core.MonitorEndpoint

func (m MonitorMap) MonitorsFor(sessionID string) []core.MonitorEndpoint {
	return m[sessionID]
}

// FakeProvider returns canned content keyed by the requesting session id,
// falling back to Default. Set Err to fail every fetch.
type FakeProvider struct {
	mu       sync.Mutex
	BySess   map[string]string
	Default  string
	Err      error
	requests []core.ContentRequest
}

func (f *FakeProvider) Fetch(ctx context.Context, req core.ContentRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	if content, ok := f.BySess[req.SessionID]; ok {
		return content, nil
	}
	if f.Default != "" {
		return f.Default, nil
	}
	return fmt.Sprintf("content for %s", req.SessionID), nil
}

// Requests returns the content requests received so far.
func (f *FakeProvider) Requests() []core.ContentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.ContentRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// FakeEvaluator records applied-strategy events.
type FakeEvaluator struct {
	mu     sync.Mutex
	events []core.StrategyAppliedEvent
}

func (f *FakeEvaluator) StrategyApplied(ctx context.Context, hostID string, event core.StrategyAppliedEvent) {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
}

// Events returns the applied events received so far.
func (f *FakeEvaluator) Events() []core.StrategyAppliedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.StrategyAppliedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// FakePublisher records roster replies.
type FakePublisher struct {
	mu      sync.Mutex
	replies []core.KnowledgeSessionsReply
}

func (f *FakePublisher) PublishRoster(ctx context.Context, reply core.KnowledgeSessionsReply) {
	f.mu.Lock()
	f.replies = append(f.replies, reply)
	f.mu.Unlock()
}

// Replies returns the roster replies published so far.
func (f *FakePublisher) Replies() []core.KnowledgeSessionsReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.KnowledgeSessionsReply, len(f.replies))
	copy(out, f.replies)
	return out
}

// LogEntry is one captured log line.
type LogEntry struct {
	Level   string
	Message string
}

// CapturingLogger records formatted log lines for assertion.
type CapturingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *CapturingLogger) log(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: fmt.Sprintf(msg, args...)})
}

func (l *CapturingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args...) }
func (l *CapturingLogger) Info(msg string, args ...any)  { l.log("info", msg, args...) }
func (l *CapturingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args...) }
func (l *CapturingLogger) Error(msg string, args ...any) { l.log("error", msg, args...) }

// Entries returns the captured lines in order.
func (l *CapturingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Count returns the number of captured lines at the given level.
func (l *CapturingLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

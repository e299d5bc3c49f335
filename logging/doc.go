// Package logging provides a minimal logging interface and adapters for
// TutorMesh.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the executor, resolver and team manager use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - TutorLogger with contextual helpers (component, host session) and
//     domain specific helpers for activities, strategies and membership
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	mesh := tutormesh.New(catalog, func(o *tutormesh.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging

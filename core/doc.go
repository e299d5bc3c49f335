// Package core provides the foundational domain types, interfaces and
// execution primitives used by TutorMesh. It defines the core abstractions
// for:
//
//   - Strategies (authored, named bundles of pedagogical activities)
//   - Activities (the closed set of concrete pedagogical actions)
//   - Pedagogical requests and their resolved form (StrategyToApply)
//   - Knowledge sessions (host + joined team members, roster state)
//   - Collaborator interfaces: session registry, presentation surfaces,
//     monitor endpoints, content provider and trigger evaluator
//
// The package intentionally keeps implementation concerns (fan-out execution,
// membership transitions, transports) out of scope, exposing small interfaces
// to enable custom backends and extensions. Authored values (Strategy,
// Activity) are immutable once loaded; anything that must be personalised per
// participant is cloned at the dispatch boundary.
package core

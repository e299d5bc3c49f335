// Package registry provides session registry implementations. The in-memory
// registry suits tests and single-process deployments; distributed
// deployments supply their own core.SessionRegistry.
package registry

// Package limiter provides per-actor token-bucket rate limiting behind a
// pluggable store: in-process for single-node deployments, Redis when the
// perimeter runs replicated.
package limiter

import "context"

// Policy defines a token-bucket budget.
type Policy struct {
	RPM   int // steady-state requests per minute
	Burst int // bucket capacity
}

// Store answers whether an actor may spend cost tokens right now.
type Store interface {
	Allow(ctx context.Context, actorID string, policy Policy, cost int) (bool, error)
}

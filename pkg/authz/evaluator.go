package authz

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatehouse-io/gatehouse/pkg/permissions"
)

// DecisionRecorder receives one observation per completed evaluation.
// Implemented by pkg/observability; a nil recorder disables recording.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, resource, outcome string, elapsed time.Duration)
}

// EvaluationTracker is an optional upgrade of DecisionRecorder: recorders
// that also implement it observe the lifecycle of each evaluation, not just
// its outcome. The returned context carries any span the tracker opened;
// finish is invoked exactly once when the evaluation completes, on the
// error path included.
type EvaluationTracker interface {
	EvalStarted(ctx context.Context, resource string) (context.Context, func())
}

// Evaluator runs the permission-evaluation protocol against an injected
// context resolver. Evaluations are single-shot pure computations over
// request-scoped inputs; the evaluator itself holds no per-request state
// and is safe for concurrent use.
type Evaluator struct {
	resolver ContextResolver
	logger   *slog.Logger
	recorder DecisionRecorder
}

// EvaluatorOption customizes an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) { e.logger = logger }
}

// WithDecisionRecorder attaches decision metrics.
func WithDecisionRecorder(r DecisionRecorder) EvaluatorOption {
	return func(e *Evaluator) { e.recorder = r }
}

// NewEvaluator builds an evaluator around the resolver collaborator.
func NewEvaluator(resolver ContextResolver, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		resolver: resolver,
		logger:   slog.Default().With("component", "authz"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate resolves the caller's identity and checks it against the
// permissions the resource demands.
//
// Only the expected failure kinds become structured denials: no session at
// all (401), a session without the admin role (403, missing == required),
// and resolved identity lacking permissions (403 with the exact missing
// set). Every other resolver failure — including context cancellation —
// propagates as the error return and produces no Result.
//
// Callers only invoke Evaluate for routes that require an identity; an
// empty required list still demands that resolution succeeds.
func (e *Evaluator) Evaluate(ctx context.Context, resource string, required []permissions.Permission, headers http.Header) (Result, error) {
	start := time.Now()

	if tracker, ok := e.recorder.(EvaluationTracker); ok {
		var finish func()
		ctx, finish = tracker.EvalStarted(ctx, resource)
		defer finish()
	}

	res, err := e.resolver.ResolveAdminContext(ctx, headers)
	if err != nil {
		return Result{}, fmt.Errorf("resolve admin context for %s: %w", resource, err)
	}

	if res.Status == NoAdminContext {
		return e.evaluateSessionFallback(ctx, resource, required, headers, start)
	}
	if res.Context == nil {
		return Result{}, fmt.Errorf("resolve admin context for %s: resolved status without context", resource)
	}

	missing := permissions.Difference(required, res.Context.Admin.Permissions)
	if len(missing) > 0 {
		e.observe(ctx, resource, "denied", start)
		e.logger.Warn("permission check denied",
			"resource", resource,
			"role", res.Context.Admin.Role,
			"missing", permissions.Strings(missing),
		)
		return denyMissingPermissions(resource, required, missing), nil
	}

	e.observe(ctx, resource, "allowed", start)
	return allowed(res.Context), nil
}

// evaluateSessionFallback handles the lighter-weight session-only path
// taken when no admin context exists.
func (e *Evaluator) evaluateSessionFallback(ctx context.Context, resource string, required []permissions.Permission, headers http.Header, start time.Time) (Result, error) {
	session, err := e.resolver.ResolveSession(ctx, headers)
	if err != nil {
		return Result{}, fmt.Errorf("resolve session for %s: %w", resource, err)
	}

	if session == nil {
		e.observe(ctx, resource, "unauthenticated", start)
		e.logger.Warn("permission check rejected: no session", "resource", resource)
		return denyUnauthenticated(), nil
	}

	e.observe(ctx, resource, "denied", start)
	e.logger.Warn("permission check rejected: session lacks admin role",
		"resource", resource,
		"user_id", session.UserID,
	)
	return denyMissingRole(resource, required), nil
}

func (e *Evaluator) observe(ctx context.Context, resource, outcome string, start time.Time) {
	if e.recorder == nil {
		return
	}
	e.recorder.RecordDecision(ctx, resource, outcome, time.Since(start))
}

// PermissionSpec names a resource and the permissions it demands.
type PermissionSpec struct {
	Resource            string
	RequiredPermissions []permissions.Permission
}

// EnsureAPIPermissions is the function-level contract consumed by resource
// handlers: Result carries either the allowed context or a ready-to-render
// denial; err is an unexpected fault the caller surfaces as a 500.
func (e *Evaluator) EnsureAPIPermissions(r *http.Request, spec PermissionSpec) (Result, error) {
	return e.Evaluate(r.Context(), spec.Resource, spec.RequiredPermissions, r.Header)
}

// Package authz implements the permission-evaluation protocol: given a
// resource and the permissions it demands, resolve the caller's identity
// through the context-resolver collaborator and produce a structured
// allow/deny result.
package authz

import (
	"context"
	"net/http"

	"github.com/gatehouse-io/gatehouse/pkg/permissions"
)

// User identifies the account behind a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the request-scoped identity produced by the external
// session-resolution collaborator. Never cached across requests.
type Session struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id,omitempty"`
	SuperAdmin     bool   `json:"super_admin"`
}

// Admin carries the resolved role and its derived permission set. The
// role→permissions mapping itself belongs to the collaborator; only its
// output shape is consumed here.
type Admin struct {
	Role        string
	Permissions permissions.Set
	SuperAdmin  bool
}

// Context is the fully resolved identity for one request. Exclusively
// owned by the request that produced it.
type Context struct {
	User    User
	Session Session
	Admin   Admin
}

// AdminStatus tags the outcome of admin-context resolution. An explicit
// tag replaces error-type sniffing: the evaluator is exhaustive over a
// closed set of cases.
type AdminStatus int

const (
	// AdminResolved means a full admin context was produced.
	AdminResolved AdminStatus = iota
	// NoAdminContext means resolution completed but found no admin
	// identity; the evaluator falls back to session-only resolution.
	NoAdminContext
)

// AdminResolution is the tagged result of ResolveAdminContext. Context is
// non-nil exactly when Status is AdminResolved.
type AdminResolution struct {
	Status  AdminStatus
	Context *Context
}

// ContextResolver is the external collaborator that turns request headers
// into an identity. Both methods perform I/O and must honor ctx
// cancellation. Any error return is an unexpected fault: the evaluator
// never converts it into a deny, it propagates.
type ContextResolver interface {
	ResolveAdminContext(ctx context.Context, headers http.Header) (AdminResolution, error)
	ResolveSession(ctx context.Context, headers http.Header) (*Session, error)
}
